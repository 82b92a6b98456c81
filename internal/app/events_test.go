package app_test

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/zloutek1/masarykbot/internal/app"
	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/ports"
)

func newRouter(store *fakeStore, gateway *fakeGateway) (*app.EventRouter, *app.MessageQueue) {
	queue := app.NewMessageQueue(store, queueConfig(), nil, testLogger())
	menus := app.NewRoleMenu(gateway, []string{"300"}, testLogger())
	archive := app.NewArchiver(store, gateway, archiverConfig(), nil, testLogger())
	board := app.NewLeaderboard(store, testLogger())
	commands := app.NewCommands(gateway, archive, board, "!", testLogger())
	return app.NewEventRouter(store, queue, menus, archive, commands, nil, testLogger()), queue
}

func TestHandleMessageCreate_QueuesAndDispatches(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	gateway := &fakeGateway{botID: "1"}
	router, queue := newRouter(store, gateway)

	router.HandleMessageCreate(context.Background(), command("!uptime"))
	drain(queue)

	// The command replied and the message itself still got archived.
	if got := gateway.sentMessages(); len(got) != 1 || !strings.Contains(got[0], "Up for") {
		t.Errorf("sent %v, want the uptime reply", got)
	}
	if len(store.messages) != 1 {
		t.Errorf("queued %d messages, want the command message archived too", len(store.messages))
	}
}

func TestHandleMessageCreate_SeedsNewMenu(t *testing.T) {
	t.Parallel()

	menu := menuFixture("👍 <@&30>\n🎮 <#400>")
	gateway := &fakeGateway{
		botID:        "1",
		menuMessages: map[domain.Snowflake]*domain.MenuMessage{"10": menu},
	}
	router, _ := newRouter(&fakeStore{}, gateway)

	router.HandleMessageCreate(context.Background(), domain.Message{
		ID: "10", ChannelID: "300", GuildID: "100", AuthorID: "7", Content: menu.Content,
	})

	for _, want := range []string{"10/👍", "10/🎮"} {
		if !slices.Contains(gateway.reacted, want) {
			t.Errorf("reacted = %v, want %s seeded on the fresh menu", gateway.reacted, want)
		}
	}
}

func TestHandleMessageCreate_IgnoresNonMenuChannels(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{botID: "1"}
	router, _ := newRouter(&fakeStore{}, gateway)

	router.HandleMessageCreate(context.Background(), domain.Message{
		ID: "10", ChannelID: "999", GuildID: "100", AuthorID: "7", Content: "👍 <@&30>",
	})

	if len(gateway.reacted) != 0 {
		t.Errorf("reacted = %v, want no seeding outside menu channels", gateway.reacted)
	}
}

func TestHandleMessageDelete_QueuesSoftDelete(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	router, queue := newRouter(store, &fakeGateway{botID: "1"})

	router.HandleMessageDelete(context.Background(), "5", "200", "100")
	drain(queue)

	if !slices.Contains(store.deletedMessages, domain.Snowflake("5")) {
		t.Errorf("deleted = %v, want message 5 soft-deleted", store.deletedMessages)
	}
}

func TestHandleReactionAdd_RoutesToMenus(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		botID:        "1",
		menuMessages: map[domain.Snowflake]*domain.MenuMessage{"10": menuFixture("👍 <@&30>")},
	}
	router, _ := newRouter(&fakeStore{}, gateway)

	router.HandleReactionAdd(context.Background(), ports.ReactionEvent{
		GuildID: "100", ChannelID: "300", MessageID: "10", UserID: "7", Emoji: "👍",
	})

	if !slices.Contains(gateway.granted, "7/30") {
		t.Errorf("granted = %v, want the reaction turned into a role grant", gateway.granted)
	}
}

func TestHandleEntityEvents_WriteThrough(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	router, _ := newRouter(store, &fakeGateway{botID: "1"})
	ctx := context.Background()

	router.HandleGuildCreate(ctx, domain.Guild{ID: "100", Name: "guild"})
	router.HandleCategoryCreate(ctx, domain.Category{ID: "40", GuildID: "100"})
	router.HandleChannelCreate(ctx, domain.Channel{ID: "200", GuildID: "100"})
	router.HandleMemberAdd(ctx, domain.Member{ID: "7", GuildID: "100"})
	router.HandleRoleCreate(ctx, domain.Role{ID: "30", GuildID: "100"})
	router.HandleChannelDelete(ctx, "200")
	router.HandleCategoryDelete(ctx, "40")
	router.HandleMemberRemove(ctx, "7")
	router.HandleRoleDelete(ctx, "30")
	router.HandleGuildDelete(ctx, "100")

	if len(store.guilds) != 1 || len(store.categories) != 1 || len(store.channels) != 1 || len(store.members) != 1 || len(store.roles) != 1 {
		t.Error("entity create events were not written through to the store")
	}
	if len(store.deletedGuilds) != 1 || len(store.deletedCategories) != 1 || len(store.deletedChannels) != 1 || len(store.deletedMembers) != 1 || len(store.deletedRoles) != 1 {
		t.Error("entity delete events were not soft-deleted in the store")
	}
}

func TestHandleReady_SyncsMenus(t *testing.T) {
	t.Parallel()

	menu := menuFixture("👍 <@&30>")
	gateway := &fakeGateway{
		botID:        "1",
		channelMenus: map[domain.Snowflake][]domain.MenuMessage{"300": {*menu}},
	}
	router, _ := newRouter(&fakeStore{}, gateway)

	router.HandleReady(context.Background())

	if !slices.Contains(gateway.reacted, "10/👍") {
		t.Errorf("reacted = %v, want the menu seeded during the ready sync", gateway.reacted)
	}
}

func TestHandleReady_RunsCatchUpBackup(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	gateway := &fakeGateway{
		botID:  "1",
		guilds: []domain.Guild{testGuild(30 * time.Minute)},
		textChannels: map[domain.Snowflake][]domain.Channel{
			"100": {{ID: "200", GuildID: "100", Name: "general", LastMessageID: "1"}},
		},
	}
	router, _ := newRouter(store, gateway)

	router.HandleReady(context.Background())

	if len(store.guilds) != 1 {
		t.Fatalf("stored %d guild snapshots, want the ready backup to snapshot the guild", len(store.guilds))
	}

	windows, err := store.Windows(context.Background(), "100")
	if err != nil {
		t.Fatalf("Windows() error = %v", err)
	}
	if len(windows) == 0 {
		t.Fatal("no archive windows recorded, want the ready backup to catch up")
	}
	for i, w := range windows {
		if !w.Finished() {
			t.Errorf("window %d not finished", i)
		}
	}
}

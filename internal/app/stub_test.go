package app_test

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeStore implements ports.Store in memory, recording what was written.
// Override individual funcs to inject failures.
type fakeStore struct {
	mu sync.Mutex

	guilds      []domain.Guild
	categories  []domain.Category
	channels    []domain.Channel
	roles       []domain.Role
	members     []domain.Member
	messages    []domain.Message
	attachments []domain.Attachment
	reactions   []domain.Reaction
	emojis      []domain.Emoji

	deletedGuilds     []domain.Snowflake
	deletedCategories []domain.Snowflake
	deletedChannels   []domain.Snowflake
	deletedMessages   []domain.Snowflake
	deletedMembers    []domain.Snowflake
	deletedRoles      []domain.Snowflake

	windows []domain.ArchiveWindow

	upsertMessagesFn func(context.Context, []domain.Message) error
	topMembersFn     func(context.Context, domain.Snowflake, int) ([]domain.LeaderboardRow, error)
	neighborhoodFn   func(context.Context, domain.Snowflake, domain.Snowflake, int) ([]domain.LeaderboardRow, error)
}

var _ ports.Store = (*fakeStore)(nil)

func (f *fakeStore) UpsertGuilds(_ context.Context, gs []domain.Guild) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guilds = append(f.guilds, gs...)
	return nil
}

func (f *fakeStore) SoftDeleteGuilds(_ context.Context, ids []domain.Snowflake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedGuilds = append(f.deletedGuilds, ids...)
	return nil
}

func (f *fakeStore) UpsertCategories(_ context.Context, cs []domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = append(f.categories, cs...)
	return nil
}

func (f *fakeStore) UpsertChannels(_ context.Context, cs []domain.Channel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, cs...)
	return nil
}

func (f *fakeStore) SoftDeleteCategories(_ context.Context, ids []domain.Snowflake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedCategories = append(f.deletedCategories, ids...)
	return nil
}

func (f *fakeStore) SoftDeleteChannels(_ context.Context, ids []domain.Snowflake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedChannels = append(f.deletedChannels, ids...)
	return nil
}

func (f *fakeStore) UpsertRoles(_ context.Context, rs []domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles = append(f.roles, rs...)
	return nil
}

func (f *fakeStore) SoftDeleteRoles(_ context.Context, ids []domain.Snowflake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedRoles = append(f.deletedRoles, ids...)
	return nil
}

func (f *fakeStore) UpsertMembers(_ context.Context, ms []domain.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members = append(f.members, ms...)
	return nil
}

func (f *fakeStore) SoftDeleteMembers(_ context.Context, ids []domain.Snowflake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedMembers = append(f.deletedMembers, ids...)
	return nil
}

func (f *fakeStore) UpsertMessages(ctx context.Context, ms []domain.Message) error {
	if f.upsertMessagesFn != nil {
		return f.upsertMessagesFn(ctx, ms)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, ms...)
	return nil
}

func (f *fakeStore) UpsertAttachments(_ context.Context, as []domain.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachments = append(f.attachments, as...)
	return nil
}

func (f *fakeStore) UpsertReactions(_ context.Context, rs []domain.Reaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, rs...)
	return nil
}

func (f *fakeStore) UpsertEmojis(_ context.Context, es []domain.Emoji) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emojis = append(f.emojis, es...)
	return nil
}

func (f *fakeStore) SoftDeleteMessages(_ context.Context, ids []domain.Snowflake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedMessages = append(f.deletedMessages, ids...)
	return nil
}

func (f *fakeStore) Windows(_ context.Context, guildID domain.Snowflake) ([]domain.ArchiveWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.ArchiveWindow
	for _, w := range f.windows {
		if w.GuildID == guildID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) StartWindow(_ context.Context, guildID domain.Snowflake, from, to time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, w := range f.windows {
		if w.GuildID == guildID && w.From.Equal(from) && w.To.Equal(to) {
			f.windows[i].StartedAt = time.Now()
			f.windows[i].FinishedAt = nil
			return nil
		}
	}
	f.windows = append(f.windows, domain.ArchiveWindow{
		GuildID: guildID, From: from, To: to, StartedAt: time.Now(),
	})
	return nil
}

func (f *fakeStore) FinishWindow(_ context.Context, guildID domain.Snowflake, from, to time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, w := range f.windows {
		if w.GuildID == guildID && w.From.Equal(from) && w.To.Equal(to) {
			now := time.Now()
			f.windows[i].FinishedAt = &now
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) TopMembers(ctx context.Context, guildID domain.Snowflake, limit int) ([]domain.LeaderboardRow, error) {
	if f.topMembersFn != nil {
		return f.topMembersFn(ctx, guildID, limit)
	}
	return nil, nil
}

func (f *fakeStore) MemberNeighborhood(ctx context.Context, guildID, memberID domain.Snowflake, radius int) ([]domain.LeaderboardRow, error) {
	if f.neighborhoodFn != nil {
		return f.neighborhoodFn(ctx, guildID, memberID, radius)
	}
	return nil, domain.ErrNotFound
}

// fakeGateway implements ports.Gateway with overridable funcs and recorded
// mutations. Zero-value methods return empty results.
type fakeGateway struct {
	mu sync.Mutex

	botID          domain.Snowflake
	guilds         []domain.Guild
	categories     map[domain.Snowflake][]domain.Category
	roles          map[domain.Snowflake][]domain.Role
	members        map[domain.Snowflake][]domain.Member
	textChannels   map[domain.Snowflake][]domain.Channel
	historyFn      func(context.Context, domain.Snowflake, time.Time, time.Time, func(domain.HistoryEntry) error) error
	menuMessages   map[domain.Snowflake]*domain.MenuMessage
	channelMenus   map[domain.Snowflake][]domain.MenuMessage
	reactors       map[string][]domain.Snowflake
	roleHolders    map[domain.Snowflake][]domain.Snowflake
	visibleMembers map[domain.Snowflake][]domain.Snowflake
	admins         map[domain.Snowflake]bool

	granted  []string
	revoked  []string
	shown    []string
	hidden   []string
	reacted  []string
	cleared  []string
	messages []string
}

var _ ports.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) BotUserID() domain.Snowflake { return f.botID }

func (f *fakeGateway) Guilds(context.Context) ([]domain.Guild, error) { return f.guilds, nil }

func (f *fakeGateway) GuildCategories(_ context.Context, guildID domain.Snowflake) ([]domain.Category, error) {
	return f.categories[guildID], nil
}

func (f *fakeGateway) GuildRoles(_ context.Context, guildID domain.Snowflake) ([]domain.Role, error) {
	return f.roles[guildID], nil
}

func (f *fakeGateway) GuildMembers(_ context.Context, guildID domain.Snowflake) ([]domain.Member, error) {
	return f.members[guildID], nil
}

func (f *fakeGateway) GuildTextChannels(_ context.Context, guildID domain.Snowflake) ([]domain.Channel, error) {
	return f.textChannels[guildID], nil
}

func (f *fakeGateway) ChannelHistory(ctx context.Context, channelID domain.Snowflake, from, to time.Time, fn func(domain.HistoryEntry) error) error {
	if f.historyFn != nil {
		return f.historyFn(ctx, channelID, from, to, fn)
	}
	return nil
}

func (f *fakeGateway) MenuMessage(_ context.Context, _, messageID domain.Snowflake) (*domain.MenuMessage, error) {
	if menu, ok := f.menuMessages[messageID]; ok {
		return menu, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGateway) ChannelMenuMessages(_ context.Context, channelID domain.Snowflake) ([]domain.MenuMessage, error) {
	return f.channelMenus[channelID], nil
}

func (f *fakeGateway) AddReaction(_ context.Context, _, messageID domain.Snowflake, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reacted = append(f.reacted, messageID.String()+"/"+emoji)
	return nil
}

func (f *fakeGateway) ClearReaction(_ context.Context, _, messageID domain.Snowflake, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, messageID.String()+"/"+emoji)
	return nil
}

func (f *fakeGateway) Reactors(_ context.Context, _, messageID domain.Snowflake, emoji string) ([]domain.Snowflake, error) {
	return f.reactors[messageID.String()+"/"+emoji], nil
}

func (f *fakeGateway) GrantRole(_ context.Context, _, memberID, roleID domain.Snowflake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.granted = append(f.granted, memberID.String()+"/"+roleID.String())
	return nil
}

func (f *fakeGateway) RevokeRole(_ context.Context, _, memberID, roleID domain.Snowflake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, memberID.String()+"/"+roleID.String())
	return nil
}

func (f *fakeGateway) RoleMembers(_ context.Context, _, roleID domain.Snowflake) ([]domain.Snowflake, error) {
	return f.roleHolders[roleID], nil
}

func (f *fakeGateway) ShowChannel(_ context.Context, channelID, memberID domain.Snowflake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, memberID.String()+"/"+channelID.String())
	return nil
}

func (f *fakeGateway) HideChannel(_ context.Context, channelID, memberID domain.Snowflake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hidden = append(f.hidden, memberID.String()+"/"+channelID.String())
	return nil
}

func (f *fakeGateway) ChannelVisibleMembers(_ context.Context, _, channelID domain.Snowflake) ([]domain.Snowflake, error) {
	return f.visibleMembers[channelID], nil
}

func (f *fakeGateway) SendMessage(_ context.Context, channelID domain.Snowflake, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, channelID.String()+": "+content)
	return nil
}

func (f *fakeGateway) IsAdministrator(_ context.Context, _, memberID domain.Snowflake) (bool, error) {
	return f.admins[memberID], nil
}

func (f *fakeGateway) sentMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

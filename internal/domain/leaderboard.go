package domain

import (
	"fmt"
	"strings"
)

// LeaderboardRow is one ranked entry of a guild's message leaderboard.
type LeaderboardRow struct {
	Rank        int
	MemberID    Snowflake
	DisplayName string
	Count       int64
}

// medals decorate the podium places of the leaderboard.
var medals = map[int]string{1: "\U0001F947", 2: "\U0001F948", 3: "\U0001F949"}

// rankWidth pads ranks so columns line up inside a code-block-free message.
const rankWidth = 2

// FormatLeaderboard renders the top rows followed by a window of rows around
// the invoking member, in Discord markdown. The invoker's row is bolded.
// The around section is omitted when the invoker already appears in top.
func FormatLeaderboard(top, around []LeaderboardRow, invoker Snowflake) string {
	var b strings.Builder

	b.WriteString("**Leaderboard**\n")
	for _, row := range top {
		writeRow(&b, row, invoker)
	}

	if containsMember(top, invoker) {
		return strings.TrimRight(b.String(), "\n")
	}

	if len(around) > 0 {
		b.WriteString("\n**Your position**\n")
		for _, row := range around {
			writeRow(&b, row, invoker)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRow(b *strings.Builder, row LeaderboardRow, invoker Snowflake) {
	name := row.DisplayName
	if row.MemberID == invoker {
		name = "**" + name + "**"
	}

	if medal, ok := medals[row.Rank]; ok {
		fmt.Fprintf(b, "%s %s — %d\n", medal, name, row.Count)
		return
	}
	fmt.Fprintf(b, "`%*d.` %s — %d\n", rankWidth, row.Rank, name, row.Count)
}

func containsMember(rows []LeaderboardRow, id Snowflake) bool {
	for _, row := range rows {
		if row.MemberID == id {
			return true
		}
	}
	return false
}

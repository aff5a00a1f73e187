package progression

import "time"

var motivationalQuotes = []string{
	"Today you are stronger than yesterday.",
	"The ocean's power flows through you.",
	"Neptune believes in your strength.",
	"Each workout brings you closer to greatness.",
	"Channel the fury of the waves.",
}

// QuoteOfTheDay picks the motivational quote for the given day. Stable
// within a day, rotating by weekday.
func QuoteOfTheDay(now time.Time) string {
	return motivationalQuotes[int(now.Weekday())%len(motivationalQuotes)]
}

package classify

// Category is the classification of a log line.
type Category string

// Categories, from most to least interesting. Noise never reaches a sink
// unless the master filter is disabled.
const (
	CategoryChat   Category = "chat"
	CategorySystem Category = "system"
	CategoryInfo   Category = "info"
	CategoryNoise  Category = "noise"
)

// Channel is the logical chat scope of a message.
type Channel string

// Channels, in detection priority order (private > team > guild > public).
// System messages are always ChannelSystem.
const (
	ChannelPublic  Channel = "public"
	ChannelTeam    Channel = "team"
	ChannelPrivate Channel = "private"
	ChannelGuild   Channel = "guild"
	ChannelSystem  Channel = "system"
)

// Message is one classified log line. It is ephemeral: produced per line,
// handed to the sink, never persisted.
type Message struct {
	Raw      string   // original line as read from the log
	Text     string   // cleaned text
	Category Category
	Channel  Channel
	Speaker  string // set when a chat speaker could be extracted
	Body     string // message portion when Speaker is set, otherwise Text
	Keep     bool   // reaches the sink under the current options
	// Translate marks the line eligible for translation. Show-all keeps Info
	// lines visible without making them translatable, so Keep can be true
	// while Translate is false.
	Translate bool
}

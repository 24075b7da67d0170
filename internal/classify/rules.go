package classify

import "regexp"

// rule couples a stable name with a compiled pattern. Rule lists are ordered
// and first-match-wins; the ordering is part of the package contract and is
// covered by tests.
type rule struct {
	name string
	re   *regexp.Regexp
}

// dropRules suppress known non-chat noise: client diagnostics,
// connection/ping chatter, memory-debug banners, typed slash commands.
// Matched against both the raw and the cleaned line.
var dropRules = []rule{
	{"menu-open", regexp.MustCompile(`(?i)<Opening menu>`)},
	{"menu-loading", regexp.MustCompile(`(?i)<Loading>`)},
	{"menu-class", regexp.MustCompile(`(?i)Opening menu:\s+class\s+`)},
	{"worker-connect", regexp.MustCompile(`(?i)Worker done, connecting to `)},
	{"connecting", regexp.MustCompile(`(?i)Connecting to `)},
	{"loading-screen", regexp.MustCompile(`(?i)\[LOADING-SCREEN\]`)},
	{"cosmetics", regexp.MustCompile(`(?i)Updating active cosmetics list\.\.\.`)},
	{"gl-supported", regexp.MustCompile(`(?i)GL\d+\s+supported`)},
	{"item-entity", regexp.MustCompile(`(?i)Item entity \d+ has no item\?!`)},
	{"memdebug-start", regexp.MustCompile(`(?i)-- Start Memory Debug --`)},
	{"memdebug-end", regexp.MustCompile(`(?i)-- End Memory Debug --`)},
	{"memstat-max", regexp.MustCompile(`(?i)^Max:\s+\d+\s*\(.*\)$`)},
	{"memstat-total", regexp.MustCompile(`(?i)^Total:\s+\d+\s*\(.*\)$`)},
	{"memstat-free", regexp.MustCompile(`(?i)^Free:\s+\d+\s*\(.*\)$`)},
	{"memtag-max", regexp.MustCompile(`(?i)^<Max>\s+\d+`)},
	{"memtag-total", regexp.MustCompile(`(?i)^<Total>\s+\d+`)},
	{"memtag-free", regexp.MustCompile(`(?i)^<Free>\s+\d+`)},
	{"data-sync", regexp.MustCompile(`(?i)Data sync response failed:`)},
	{"ping-timeout", regexp.MustCompile(`(?i)<Can't ping .*?>\s+Timed out`)},
	{"ping-fail", regexp.MustCompile(`(?i)Can't ping `)},
	{"conn-state", regexp.MustCompile(`(?i)<Update Connection State>\s+\d+`)},
	{"conn-server", regexp.MustCompile(`(?i)<Update Connection Server>`)},
	{"conn-json", regexp.MustCompile(`(?i)<Update connection status json2>`)},
	{"lobby-title", regexp.MustCompile(`(?i)^\s*Bed Wars\s*$`)},
	{"slash-command", regexp.MustCompile(`^\s*/\S+`)},
	{"punctuation-only", regexp.MustCompile(`^[^a-zA-Z0-9\x{4e00}-\x{9fff}]{1,3}$`)},
	{"blc-tag", regexp.MustCompile(`(?i)^<BLC>`)},
	{"opponent-tag", regexp.MustCompile(`(?i)^<Opponent>`)},
}

// rewardDropRules suppress reward/XP/token toasts. Skipped entirely when the
// keep-rewards option is set.
var rewardDropRules = []rule{
	{"tokens-earned", regexp.MustCompile(`(?i)^\+\d+\s+tokens!\s*\(.*\)`)},
	{"xp-earned", regexp.MustCompile(`(?i)^\+\d+\s+Bed Wars XP\s*\(.*\)`)},
	{"tokens-doubled", regexp.MustCompile(`(?i)^Tokens just earned DOUBLED`)},
}

// systemKeepRules recognize join/leave/achievement announcements. Only
// consulted when the keep-system option is set.
var systemKeepRules = []rule{
	{"joined", regexp.MustCompile(`(?i)joined the game`)},
	{"left", regexp.MustCompile(`(?i)left the game`)},
	{"advancement-made", regexp.MustCompile(`(?i)has made the advancement`)},
	{"completed", regexp.MustCompile(`(?i)has completed`)},
	{"achievement", regexp.MustCompile(`(?i)achievement`)},
	{"advancement", regexp.MustCompile(`(?i)advancement`)},
	{"joined-zh", regexp.MustCompile(`玩家.*加入游戏`)},
	{"left-zh", regexp.MustCompile(`玩家.*离开游戏`)},
	{"advancement-zh", regexp.MustCompile(`完成了进度`)},
	{"achievement-zh", regexp.MustCompile(`获得了成就`)},
}

// chatShapes recognize the chat line family, most specific first:
// angle-bracket speaker (with optional bracketed rank prefixes), the two
// [CHAT]-tagged forms, then the bare "name: message" shape. The colon shape
// additionally requires an identifier-looking speaker; see colonChat.
var chatShapes = []rule{
	{"angle-speaker", regexp.MustCompile(`^(?:\[[^\]]*\]\s*)*<[^>]{1,32}>\s*.+$`)},
	{"chat-tagged", regexp.MustCompile(`^\[.*?\]\s*\[.*?/CHAT\]:\s*.+$`)},
	{"chat-prefix", regexp.MustCompile(`^\[CHAT\]\s*.+$`)},
	{"colon-speaker", regexp.MustCompile(`^(?:\[[^\]]*\]\s*)*[A-Za-z0-9_]{3,16}\s*:\s*.+$`)},
}

// Extraction variants of the chat family, capturing (speaker, message).
var extractShapes = []*regexp.Regexp{
	regexp.MustCompile(`^(?:\[[^\]]*\]\s*)*<([^>]+)>\s*(.*)$`),
	regexp.MustCompile(`^\[.*?\]\s*\[.*?/CHAT\]:\s*<([^>]+)>\s*(.*)$`),
	regexp.MustCompile(`^(?:\[[^\]]*\]\s*)*([A-Za-z0-9_]{3,16})\s*:\s*(.*)$`),
}

var (
	// colonChat is the strict "name: message" matcher used for extraction
	// and the reserved-token check.
	colonChat = regexp.MustCompile(`^(?:\[[^\]]+\]\s*)*([A-Za-z0-9_]{3,16})\s*:\s*(.+)$`)

	// reservedSpeaker rejects memory-stat labels that mimic a speaker.
	reservedSpeaker = regexp.MustCompile(`(?i)^(Max|Total|Free)$`)

	// reservedAngleTag rejects the <Max>/<Total>/<Free> pseudo-speakers.
	reservedAngleTag = regexp.MustCompile(`(?i)^<(Max|Total|Free)>`)

	// hasContent requires at least one Latin letter or Han character, the
	// minimum for a line to be worth translating.
	hasContent = regexp.MustCompile(`[A-Za-z\x{4e00}-\x{9fff}]`)
)

// channelRules map keyword groups onto channels, highest priority first.
var channelRules = []struct {
	channel Channel
	re      *regexp.Regexp
}{
	{ChannelPrivate, regexp.MustCompile(`(?i)\b(whisper|whispers|tell|msg|pm|private)\b`)},
	{ChannelTeam, regexp.MustCompile(`(?i)\bteam\b|\[TEAM\]`)},
	{ChannelGuild, regexp.MustCompile(`(?i)\bguild\b|\[GUILD\]`)},
}

// cleanStep is one substitution applied during cleaning, in order.
type cleanStep struct {
	re   *regexp.Regexp
	repl string
}

// cleanSteps strip timestamp prefixes, log-level/thread tags, and color or
// style codes. The two bracket-adjacent steps handle the degraded form some
// launchers leave behind: a bare code letter glued to a following bracket
// after the section sign was lost ("b[MVP+] name: msg").
var cleanSteps = []cleanStep{
	{regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\]\s*`), ""},
	{regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\]\s*`), ""},
	{regexp.MustCompile(`(?i)^§[0-9a-fk-or]\s*`), ""},
	{regexp.MustCompile(`(?i)\[.*?INFO\]:\s*`), ""},
	{regexp.MustCompile(`(?i)\[.*?WARN\]:\s*`), ""},
	{regexp.MustCompile(`(?i)\[.*?ERROR\]:\s*`), ""},
	{regexp.MustCompile(`(?i)\[Client thread\]:\s*`), ""},
	{regexp.MustCompile(`(?i)\[Server thread\]:\s*`), ""},
	{regexp.MustCompile(`(?i)\[CHAT\]\s*`), ""},
	{regexp.MustCompile(`(?i)§[0-9a-fk-or]`), ""},
	{regexp.MustCompile(`§`), ""},
	{regexp.MustCompile(`(?i)^[0-9a-fk-or](\[)`), "$1"},
	{regexp.MustCompile(`(?i)([^A-Za-z0-9_])[0-9a-fk-or](\[)`), "$1$2"},
}

package fsearch

// MatchedLine 是一次正则匹配命中的具体位置。
type MatchedLine struct {
	// Number 是从 1 开始计数的行号。
	Number int
	// Text 是命中的那一行原文(去除行尾换行符)。
	Text string
}

// Result 是单个文件的搜索结果,携带路径和行号，方便 --json 输出和
// 增量重扫时按路径索引。
type Result struct {
	// Path 是相对或绝对的文件路径,取决于 Settings.Roots 的写法。
	Path string
	// Match 表示该文件是否至少命中一个模式。
	Match bool
	// Lines 是所有命中的行,按文件内出现顺序排列。
	Lines []MatchedLine
}

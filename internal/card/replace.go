package card

import "strings"

// Contains 内容中是否有之前插入的卡片
func Contains(content string) bool {
	start := strings.Index(content, StartMarker)
	return start >= 0 && strings.Contains(content[start:], EndMarker)
}

// Replace 用新卡片替换内容中第一张卡片，其余内容保持不变
// 找不到完整的起止标记时原样返回，ok 为 false
func Replace(content, card string) (string, bool) {
	start := strings.Index(content, StartMarker)
	if start < 0 {
		return content, false
	}
	end := strings.Index(content[start:], EndMarker)
	if end < 0 {
		return content, false
	}
	end += start + len(EndMarker)

	return content[:start] + card + content[end:], true
}

// Prepend 把卡片放在内容最前面，用于创建话题时
func Prepend(content, card string) string {
	if card == "" {
		return content
	}
	return card + "\n\n" + content
}

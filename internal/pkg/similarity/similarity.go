// Package similarity 提供基于编辑距离的字符串相似度
package similarity

// MaxInputRunes 单个输入参与比较的最大字符数，超出部分截断
const MaxInputRunes = 256

// Similarity 返回 1 - 编辑距离 / 较长串长度，范围 [0, 1]。
// 两个空串视为完全相同。大小写由调用方处理。
func Similarity(a, b string) float64 {
	ra := truncate([]rune(a))
	rb := truncate([]rune(b))

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1.0
	}

	return 1.0 - float64(distance(ra, rb))/float64(longest)
}

// distance 编辑距离，插入、删除、替换代价均为 1
func distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// 两行滚动数组，prev[j] 为 a[:i-1] 与 b[:j] 的距离
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func truncate(r []rune) []rune {
	if len(r) > MaxInputRunes {
		return r[:MaxInputRunes]
	}
	return r
}

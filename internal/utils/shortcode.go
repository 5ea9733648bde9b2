package utils

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

var firstLetterArgs = func() pinyin.Args {
	a := pinyin.NewArgs()
	a.Style = pinyin.FirstLetter
	return a
}()

// ShortCodeFromName 根据模板名称生成简称徽章
// 中文取每个字拼音的首字母，英文取每个单词的首字母，最多 MaxShortCodeLength 个字符
func ShortCodeFromName(name string) string {
	var b strings.Builder
	n := 0

	for _, word := range strings.Fields(name) {
		wordStarted := false
		for _, r := range word {
			if n >= MaxShortCodeLength {
				return b.String()
			}

			switch {
			case unicode.Is(unicode.Han, r):
				letters := pinyin.LazyPinyin(string(r), firstLetterArgs)
				if len(letters) > 0 && letters[0] != "" {
					b.WriteString(strings.ToUpper(letters[0]))
					n++
				}
			case !wordStarted && (unicode.IsLetter(r) || unicode.IsDigit(r)):
				b.WriteRune(unicode.ToUpper(r))
				n++
				wordStarted = true
			}
		}
	}

	return b.String()
}

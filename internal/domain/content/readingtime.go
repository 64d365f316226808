package content

import (
	"fmt"
	"math"
	"unicode"
)

const DefaultWordsPerMinute = 200

type ReadingTime struct {
	Text    string  `json:"text"`
	Minutes float64 `json:"minutes"`
	Time    int64   `json:"time"` // milliseconds
	Words   int     `json:"words"`
}

// EstimateReadingTime counts words in text and converts them to reading
// time at wpm words per minute. Latin words are whitespace delimited; every
// CJK character counts as one word.
func EstimateReadingTime(text string, wpm int) ReadingTime {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	words := CountWords(text)
	minutes := float64(words) / float64(wpm)
	shown := math.Ceil(math.Round(minutes*100) / 100)
	return ReadingTime{
		Text:    fmt.Sprintf("%d min read", int(shown)),
		Minutes: minutes,
		Time:    int64(math.Round(minutes * 60000)),
		Words:   words,
	}
}

func CountWords(text string) int {
	rs := []rune(text)
	start, end := 0, len(rs)-1
	for start <= end && isWordBound(rs[start]) {
		start++
	}
	for end >= start && isWordBound(rs[end]) {
		end--
	}

	next := func(i int) rune {
		if i+1 < len(rs) {
			return rs[i+1]
		}
		return '\n'
	}

	words := 0
	for i := start; i <= end; i++ {
		r := rs[i]
		if isCJK(r) || (!isWordBound(r) && (isWordBound(next(i)) || isCJK(next(i)))) {
			words++
		}
		if isCJK(r) {
			for i <= end && (isPunctuation(next(i)) || isWordBound(next(i))) {
				i++
			}
		}
	}
	return words
}

func isWordBound(r rune) bool {
	return r == ' ' || r == '\n' || r == '\r' || r == '\t'
}

func isCJK(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309f: // hiragana
	case r >= 0x30a0 && r <= 0x30ff: // katakana
	case r >= 0x4e00 && r <= 0x9fff:
	case r >= 0x3400 && r <= 0x4dbf:
	case r >= 0xac00 && r <= 0xd7a3: // hangul
	case r >= 0xf900 && r <= 0xfaff:
	default:
		return false
	}
	return true
}

func isPunctuation(r rune) bool {
	if r <= unicode.MaxASCII {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}
	return (r >= 0x3000 && r <= 0x303f) || (r >= 0xff00 && r <= 0xffef)
}

package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	cases := map[string]string{
		"en":      "en",
		"EN-us":   "en",
		"ru_RU":   "ru",
		"zh":      "zh-CN",
		"zh-TW":   "zh-CN",
		"zh_CN":   "zh-CN",
		"zh-Hant": "zh-CN",
		"en-AU":   "en",
		"de":      "",
		"":        "",
		"  ru ":   "ru",
	}
	for in, want := range cases {
		assert.Equal(t, want, Canonical(in), "input %q", in)
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	// The first candidate that maps to a supported locale wins.
	assert.Equal(t, "ru", Resolve([]string{"de", "ru", "en"}, Default))
	assert.Equal(t, "zh-CN", Resolve([]string{"zh-HK", "en"}, Default))
}

func TestResolveFallsBack(t *testing.T) {
	assert.Equal(t, "en", Resolve(nil, Default))
	assert.Equal(t, "en", Resolve([]string{"de", "fr", ""}, Default))
}

func TestFromAcceptLanguage(t *testing.T) {
	cands := FromAcceptLanguage("zh-TW;q=0.9, en;q=0.8")
	assert.NotEmpty(t, cands)
	assert.Equal(t, "zh-CN", Resolve(cands, Default))

	assert.Nil(t, FromAcceptLanguage(""))
	assert.Equal(t, Default, Resolve(FromAcceptLanguage(";;;"), Default))
}

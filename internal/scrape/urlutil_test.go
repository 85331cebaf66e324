package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveQuery(t *testing.T) {
	assert.Equal(t, "https://x.com/a", RemoveQuery("https://x.com/a?b=1"))
	assert.Equal(t, "https://x.com/a", RemoveQuery("https://x.com/a"))
	assert.Equal(t,
		"https://www.google.com.br/",
		RemoveQuery("https://www.google.com.br/?gws_rd=cr&dcr=0&ei=OEI9Wpr0HMeNwwSF6"))
}

func TestRemoveQuery_Idempotent(t *testing.T) {
	u := "https://x.com/a?b=1&c=2"
	assert.Equal(t, RemoveQuery(u), RemoveQuery(RemoveQuery(u)))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Matthew Panzarino": "matthew-panzarino",
		"Danilo Woznica":    "danilo-woznica",
		"José  Álvarez":     "jose-alvarez",
		"IT":                "it",
		"  Front-end!  ":    "front-end",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "slugify %q", in)
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Mobile Apps", Title("mobile apps"))
	assert.Equal(t, "It", Title("IT"))
}

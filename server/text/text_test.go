package text

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	mctext "github.com/sandertv/gophertunnel/minecraft/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyUnstyledIsContent(t *testing.T) {
	cases := []string{"", "hello", "x = 12.5, y = 64", "üñíçødé ✓", "trailing space "}
	for _, c := range cases {
		got, err := Of(c).Legacy(SectionSign)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestLegacyStyles(t *testing.T) {
	msg := Join(
		Ofc(Red, "error: "),
		Of("plain"),
		Ofc(Gold, "bold").WithFormat(Bold),
	)
	got, err := msg.Legacy(SectionSign)
	require.NoError(t, err)
	assert.Equal(t, "§cerror: §rplain§6§lbold", got)

	inherited := Ofc(Aqua, "a").Append(Of("b").WithFormat(Italic), Of("c"))
	got, err = inherited.Legacy('&')
	require.NoError(t, err)
	assert.Equal(t, "&ba&b&ob&bc", got)
}

func TestLegacyStripsPrefixFromContent(t *testing.T) {
	got, err := Of("50% off §lnow").Legacy(SectionSign)
	require.NoError(t, err)
	assert.Equal(t, "50% off lnow", got)

	got, err = Ofc(Red, "§§c").Append(Of("x§")).Legacy(SectionSign)
	require.NoError(t, err)
	assert.Equal(t, "§ccx", got)
	assert.Equal(t, "cx", mctext.Clean(got))

	got, err = Of("a&b§c").Legacy('&')
	require.NoError(t, err)
	assert.Equal(t, "ab§c", got)

	assert.Equal(t, "bad �lx", Of("bad \xff§lx").MustLegacy(SectionSign))
}

func TestLegacyVisibleTextRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 200; i++ {
		s := randomPrintable(r, r.IntN(1_000))
		msg := Ofc(Gold, "> ").Append(Of(s).WithFormat(Bold))
		got, err := msg.Legacy(SectionSign)
		require.NoError(t, err)
		require.Equal(t, "> "+StripPrefix(s, SectionSign), mctext.Clean(got))
	}
}

func TestPlainDropsStyle(t *testing.T) {
	msg := Ofc(Green, "Render ").
		WithHover(Of("hover is not visible")).
		WithClick("/bluemap").
		Append(Ofc(Yellow, "queued").WithFormat(Bold, Underlined), Of("."))
	assert.Equal(t, "Render queued.", msg.Plain())
	assert.Equal(t, "Render queued.", msg.String())
}

func TestWithMethodsDoNotMutate(t *testing.T) {
	base := Of("base", Of("child"))
	_ = base.WithColour(Red).WithFormat(Bold).Append(Of("extra")).WithClick("/x")

	assert.Equal(t, ColourNone, base.Colour())
	assert.Equal(t, Format(0), base.Formats())
	assert.Len(t, base.Children(), 1)
	_, ok := base.Click()
	assert.False(t, ok)

	children := base.Children()
	children[0] = Of("changed")
	assert.Equal(t, "basechild", base.Plain())
}

func TestJSONRoundTrip(t *testing.T) {
	msg := Ofc(DarkAqua, "BlueMap ").
		WithFormat(Bold).
		WithHover(Ofc(Gray, "click for help")).
		WithClick("/bluemap help").
		Append(Of("v"), Ofc(White, "5.0").WithFormat(Italic, Strikethrough, Obfuscated))

	data, err := msg.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"clickEvent":{"action":"run_command","value":"/bluemap help"}`)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, msg.Plain(), parsed.Plain())
	assert.Equal(t, DarkAqua, parsed.Colour())
	assert.True(t, parsed.Formats().Has(Bold))
	hover, ok := parsed.Hover()
	require.True(t, ok)
	assert.Equal(t, "click for help", hover.Plain())
	click, ok := parsed.Click()
	require.True(t, ok)
	assert.Equal(t, "/bluemap help", click)
	children := parsed.Children()
	require.Len(t, children, 2)
	assert.True(t, children[1].Formats().Has(Italic|Strikethrough|Obfuscated))
}

func TestParseShorthands(t *testing.T) {
	s, err := Parse([]byte(`"just a string"`))
	require.NoError(t, err)
	assert.Equal(t, "just a string", s.Plain())

	arr, err := Parse([]byte(`[{"text":"a","color":"red"},"b",{"text":"c"}]`))
	require.NoError(t, err)
	assert.Equal(t, "abc", arr.Plain())
	assert.Equal(t, Red, arr.Colour())

	legacyHover, err := Parse([]byte(`{"text":"x","hoverEvent":{"action":"show_text","contents":"tip"}}`))
	require.NoError(t, err)
	hover, ok := legacyHover.Hover()
	require.True(t, ok)
	assert.Equal(t, "tip", hover.Plain())
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"number":         `42`,
		"broken object":  `{"text":`,
		"unknown colour": `{"text":"x","color":"mauve"}`,
		"empty array":    `[]`,
		"bad extra":      `{"text":"x","extra":[17]}`,
	}
	for name, input := range cases {
		_, err := Parse([]byte(input))
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrConversion), name)
	}
}

func TestValidateRejectsInvalidText(t *testing.T) {
	assert.ErrorIs(t, Of("bad \xff utf8").Validate(), ErrConversion)
	assert.ErrorIs(t, Of("x").WithColour("mauve").Validate(), ErrConversion)
	assert.ErrorIs(t, Of("x").WithFormat(Format(1<<7)).Validate(), ErrConversion)

	deep := Of("leaf")
	for range maxDepth + 1 {
		deep = Of("", deep)
	}
	assert.ErrorIs(t, deep.Validate(), ErrConversion)

	_, err := Of("bad \xff").JSON()
	assert.ErrorIs(t, err, ErrConversion)
	assert.Equal(t, "bad �", Of("bad \xff").MustLegacy(SectionSign))
}

func TestPlainJSONRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		s := randomPrintable(r, r.IntN(10_000))
		data, err := Of(s).JSON()
		require.NoError(t, err)
		parsed, err := Parse(data)
		require.NoError(t, err)
		require.Equal(t, s, parsed.Plain())
	}
}

func randomPrintable(r *rand.Rand, n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 .,:;!?\"'\\/{}[]<>-_=+@#$%^&*()äöü€✓§"
	runes := []rune(alphabet)
	var b strings.Builder
	for range n {
		b.WriteRune(runes[r.IntN(len(runes))])
	}
	return b.String()
}

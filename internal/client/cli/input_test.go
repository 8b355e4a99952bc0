package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetWithDefault(t *testing.T) {
	var out bytes.Buffer
	got, err := GetWithDefault(rdr("\n"), "Title", "old", &out)
	require.NoError(t, err)
	assert.Equal(t, "old", got)
	assert.Contains(t, out.String(), "Title [old]")

	got, err = GetWithDefault(rdr("new\n"), "Title", "old", &out)
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("a\nb\n\n\n"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestGetDate(t *testing.T) {
	var out bytes.Buffer

	d, err := GetDate(rdr("2025-07-01\n"), "Start", models.Date{}, false, &out)
	require.NoError(t, err)
	assert.Equal(t, models.NewDate(2025, time.July, 1), d)

	d, err = GetDate(rdr("\n"), "Due", models.Date{}, true, &out)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = GetDate(rdr("\n"), "Start", models.Date{}, false, &out)
	require.Error(t, err)

	d, err = GetDate(rdr("\n"), "Start", models.NewDate(2024, time.May, 2), false, &out)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", d.String())

	_, err = GetDate(rdr("tomorrow\n"), "Start", models.Date{}, false, &out)
	require.Error(t, err)
}

func TestGetYesNo(t *testing.T) {
	var out bytes.Buffer
	tests := []struct {
		in      string
		current bool
		want    bool
		wantErr bool
	}{
		{in: "y\n", want: true},
		{in: "NO\n", current: true, want: false},
		{in: "\n", current: true, want: true},
		{in: "maybe\n", wantErr: true},
	}
	for _, tt := range tests {
		got, err := GetYesNo(rdr(tt.in), "Original received?", tt.current, &out)
		if tt.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestGetFloat(t *testing.T) {
	var out bytes.Buffer
	f, err := GetFloat(rdr("2,5\n"), "Days", 0, &out)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	f, err = GetFloat(rdr("\n"), "Days", 3, &out)
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	_, err = GetFloat(rdr("x\n"), "Days", 0, &out)
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, splitList(" 1, ,2 "))
	assert.Nil(t, splitList(""))
}

func TestInteractive(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	isTerminal = func(int) bool { return true }
	assert.True(t, Interactive())
	isTerminal = func(int) bool { return false }
	assert.False(t, Interactive())
}

package words

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Word
		wantErr bool
		reason  string
	}{
		{name: "lowercase", in: "crane", want: "CRANE"},
		{name: "surrounding whitespace", in: "  Crane\t", want: "CRANE"},
		{name: "too short", in: "cran", wantErr: true},
		{name: "too long", in: "cranes", wantErr: true},
		{name: "digits", in: "cr4ne", wantErr: true},
		{name: "empty", in: "   ", wantErr: true},
		{name: "long s folds to S", in: "ſlate", wantErr: true, reason: "letters only"},
		{name: "dotless i folds to I", in: "bıble", wantErr: true, reason: "letters only"},
		{name: "accented letter", in: "crème", wantErr: true, reason: "letters only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.in, verr.Input)
				if tt.reason != "" {
					assert.Equal(t, tt.reason, verr.Reason)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	src := "crane\n  React \n\n# comment\nbad\ncrane\nTOOLONG\nsl4te\nslate\n"
	got, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []Word{"CRANE", "REACT", "SLATE"}, got)
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(strings.NewReader("\n# nothing here\nab\n"))
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, err, errNoWords)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("apple\nberry\n"), 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Word{"APPLE", "BERRY"}, got)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadDefault(t *testing.T) {
	got, err := LoadDefault()
	require.NoError(t, err)
	assert.Contains(t, got, Word("CRANE"))
	for _, w := range got {
		assert.Len(t, string(w), Length)
	}
}

func TestPickRandom(t *testing.T) {
	_, err := PickRandom(nil)
	assert.ErrorIs(t, err, ErrEmptyBank)

	list := []Word{"CRANE", "SLATE", "REACT"}
	for i := 0; i < 50; i++ {
		w, err := PickRandom(list)
		require.NoError(t, err)
		assert.Contains(t, list, w)
	}
}

func TestPickForDate(t *testing.T) {
	list := []Word{"CRANE", "SLATE", "REACT", "APPLE", "BERRY"}
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)

	a, err := PickForDate(list, day, "salt")
	require.NoError(t, err)
	b, err := PickForDate(list, later, "salt")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = PickForDate(nil, day, "salt")
	assert.ErrorIs(t, err, ErrEmptyBank)
}

func TestBank(t *testing.T) {
	b := NewBank([]Word{"CRANE"}, []Word{"SLATE"}, ParsePickMode("random"), "")
	assert.True(t, b.Contains("CRANE"))
	assert.True(t, b.Contains("SLATE"))
	assert.False(t, b.Contains("REACT"))

	w, err := b.Pick(time.Now())
	require.NoError(t, err)
	assert.Equal(t, Word("CRANE"), w)

	answers, allowed := b.Stats()
	assert.Equal(t, 1, answers)
	assert.Equal(t, 2, allowed)

	empty := NewBank(nil, nil, PickDailyMode, "x")
	_, err = empty.Pick(time.Now())
	assert.ErrorIs(t, err, ErrEmptyBank)
}

func TestBankPickPractice(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	daily := NewBank([]Word{"CRANE", "SLATE", "BUILT"}, nil, PickDailyMode, "salt")
	assert.True(t, daily.Daily())
	today, err := daily.Pick(now)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		w, err := daily.PickPractice(now)
		require.NoError(t, err)
		assert.NotEqual(t, today, w)
	}

	single := NewBank([]Word{"CRANE"}, nil, PickDailyMode, "salt")
	w, err := single.PickPractice(now)
	require.NoError(t, err)
	assert.Equal(t, Word("CRANE"), w)

	random := NewBank([]Word{"CRANE"}, nil, PickRandomMode, "")
	assert.False(t, random.Daily())
	w, err = random.PickPractice(now)
	require.NoError(t, err)
	assert.Equal(t, Word("CRANE"), w)
}

func TestParsePickMode(t *testing.T) {
	assert.Equal(t, PickDailyMode, ParsePickMode(" Daily "))
	assert.Equal(t, PickRandomMode, ParsePickMode("whatever"))
}

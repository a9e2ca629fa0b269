package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		count    int
		wantKeep int
		wantSkip bool
		wantErr  bool
	}{
		{name: "empty skips", input: "", count: 2, wantSkip: true},
		{name: "whitespace skips", input: "  \t", count: 2, wantSkip: true},
		{name: "first", input: "1", count: 2, wantKeep: 1},
		{name: "last", input: "3", count: 3, wantKeep: 3},
		{name: "padded", input: " 2 ", count: 3, wantKeep: 2},
		{name: "zero", input: "0", count: 2, wantErr: true},
		{name: "negative", input: "-1", count: 2, wantErr: true},
		{name: "too large", input: "99", count: 2, wantErr: true},
		{name: "letters", input: "abc", count: 2, wantErr: true},
		{name: "float", input: "1.5", count: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDecision(tt.input, tt.count)
			if tt.wantErr {
				var sel *InvalidSelectionError
				require.ErrorAs(t, err, &sel)
				assert.Equal(t, tt.input, sel.Input)
				assert.Equal(t, tt.count, sel.Count)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSkip, d.IsSkip())

			keep, ok := d.KeepIndex()
			assert.Equal(t, !tt.wantSkip, ok)
			assert.Equal(t, tt.wantKeep, keep)
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "skip", SkipAll().String())
	assert.Equal(t, "keep 2", Keep(2).String())
}

func TestInvalidSelectionError(t *testing.T) {
	err := &InvalidSelectionError{Input: "abc", Count: 3}
	assert.Contains(t, err.Error(), `"abc"`)
	assert.Contains(t, err.Error(), "1 to 3")
}

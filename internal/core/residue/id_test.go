package residue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   ID
		wantOK bool
	}{
		{name: "single letter chain", input: "A:12", want: ID{Chain: "A", Number: 12}, wantOK: true},
		{name: "lowercase chain", input: "b:7", want: ID{Chain: "b", Number: 7}, wantOK: true},
		{name: "multi letter chain", input: "AB:3", want: ID{Chain: "AB", Number: 3}, wantOK: true},
		{name: "leading zeros", input: "A:007", want: ID{Chain: "A", Number: 7}, wantOK: true},
		{name: "zero number", input: "A:0"},
		{name: "negative number", input: "A:-4"},
		{name: "missing colon", input: "A12"},
		{name: "missing chain", input: ":12"},
		{name: "missing number", input: "A:"},
		{name: "digit chain", input: "1:12"},
		{name: "whitespace", input: "A: 12"},
		{name: "trailing junk", input: "A:12x"},
		{name: "two colons", input: "A:1:2"},
		{name: "overflow", input: "A:99999999999999999999999"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if !ok {
				assert.False(t, got.IsValid())
			}
		})
	}
}

func TestNew(t *testing.T) {
	_, ok := New("A", 1)
	assert.True(t, ok)

	_, ok = New("", 1)
	assert.False(t, ok)

	_, ok = New("A", 0)
	assert.False(t, ok)

	_, ok = New("A1", 3)
	assert.False(t, ok)
}

func TestID_String(t *testing.T) {
	assert.Equal(t, "E:417", ID{Chain: "E", Number: 417}.String())
	assert.Equal(t, "", ID{}.String())
	assert.Equal(t, "A:5", Format("A", 5))
}

func TestID_MarshalText(t *testing.T) {
	b, err := ID{Chain: "A", Number: 9}.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "A:9", string(b))
}

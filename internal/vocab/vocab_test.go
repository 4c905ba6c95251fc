package vocab

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	src := `# thumos classes
1 BaseballPitch
2 BasketballDunk

7 Billiards
`
	v, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 3, v.Len())
	require.Equal(t, []string{"BaseballPitch", "BasketballDunk", "Billiards"}, v.Names())

	id, ok := v.ID("Billiards")
	require.True(t, ok)
	require.Equal(t, 7, id)
	require.Equal(t, map[string]int{"BaseballPitch": 1, "BasketballDunk": 2, "Billiards": 7}, v.Map())
}

func TestLoadRejectsMalformed(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"missing_name", "1\n"},
		{"bad_id", "x Jump\n"},
		{"duplicate_name", "1 Jump\n2 Jump\n"},
		{"duplicate_id", "1 Jump\n1 Run\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.src))
			require.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	v, err := New("run", "jump")
	require.NoError(t, err)
	require.NoError(t, v.Validate("jump"))

	err = v.Validate("swim")
	var unknown *UnknownCategoryError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "swim", unknown.Category)
	require.Equal(t, []string{"run", "jump"}, unknown.Known)
	require.Contains(t, err.Error(), "run, jump")
}

func TestSortByID(t *testing.T) {
	v, err := New("c", "b", "a")
	require.NoError(t, err)
	names := []string{"zz", "a", "c", "b"}
	v.SortByID(names)
	require.Equal(t, []string{"c", "b", "a", "zz"}, names)
}

package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetByName(t *testing.T) {
	s, err := SetByName("extended")
	require.NoError(t, err)
	assert.Len(t, s.Labels, 6)

	s, err = SetByName("reduced")
	require.NoError(t, err)
	assert.Len(t, s.Labels, 4)

	_, err = SetByName("bogus")
	assert.Error(t, err)
}

func TestDefaultCodeIsLiveInBothVariants(t *testing.T) {
	assert.Equal(t, "Live", Extended.NameFor(DefaultCode))
	assert.Equal(t, "Live", Reduced.NameFor(DefaultCode))
}

func TestVariantsDisagreeAboveFake(t *testing.T) {
	assert.Equal(t, "Soft", Extended.NameFor("2"))
	assert.Equal(t, "Uncertain", Reduced.NameFor("2"))
}

func TestNameForUnknownCodePassesThrough(t *testing.T) {
	assert.Equal(t, "9", Reduced.NameFor("9"))
}

func TestCodeForAndContains(t *testing.T) {
	assert.Equal(t, "4", Extended.CodeFor("Uncertain"))
	assert.Equal(t, "", Extended.CodeFor("Nope"))
	assert.True(t, Extended.Contains("5"))
	assert.False(t, Reduced.Contains("5"))
}

func TestNamesOrder(t *testing.T) {
	assert.Equal(t, []string{"Live", "Fake", "Uncertain", "Other"}, Reduced.Names())
}

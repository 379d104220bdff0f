package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitsSelectsFirstMatchInOrder(t *testing.T) {
	predicates := map[string]LimitPredicate{
		"small": func(f map[string]string) bool { return f["size"] == "small" },
		"large": func(f map[string]string) bool { return true },
	}
	limits := NewLimits([]string{"small", "large"}, predicates, nil)

	assert.Equal(t, "small", limits.Conf(map[string]string{"size": "small"}))
	assert.Equal(t, "large", limits.Conf(map[string]string{"size": "huge"}))
}

func TestLimitsNoMatchReturnsEmpty(t *testing.T) {
	limits := NewLimits([]string{"only"}, map[string]LimitPredicate{
		"only": func(f map[string]string) bool { return false },
	}, nil)
	assert.Equal(t, "", limits.Conf(nil))
}

func TestLimitsRunsSetupOnce(t *testing.T) {
	calls := 0
	limits := NewLimits([]string{"a"}, map[string]LimitPredicate{
		"a": func(f map[string]string) bool { return true },
	}, func() { calls++ })

	limits.Conf(nil)
	limits.Conf(nil)
	assert.Equal(t, 1, calls)
}

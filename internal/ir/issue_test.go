package ir

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_WarningCap(t *testing.T) {
	const limit = 5
	c := NewCollector(limit)

	for i := 0; i < limit+10; i++ {
		c.Add(Issue{
			Severity: SeverityWarning,
			Code:     CodeUnknownRootKey,
			Message:  fmt.Sprintf("warning %d", i),
		})
	}

	issues := c.Issues()
	require.Len(t, issues, limit+1, "limit warnings plus one synthetic info")
	assert.Equal(t, limit, c.WarningCount())

	last := issues[len(issues)-1]
	assert.Equal(t, SeverityInfo, last.Severity)
	assert.Equal(t, CodeWarningCapReached, last.Code)

	// Only one synthetic issue regardless of how many overflow.
	var capNotices int
	for _, issue := range issues {
		if issue.Code == CodeWarningCapReached {
			capNotices++
		}
	}
	assert.Equal(t, 1, capNotices)
}

func TestCollector_ErrorsAndInfoNeverCapped(t *testing.T) {
	c := NewCollector(1)
	c.Add(Issue{Severity: SeverityWarning, Code: CodeUnknownRootKey})
	c.Add(Issue{Severity: SeverityWarning, Code: CodeUnknownRootKey}) // dropped

	for i := 0; i < 3; i++ {
		c.Add(Issue{Severity: SeverityError, Code: CodeMethodCycle})
		c.Add(Issue{Severity: SeverityInfo, Code: CodeUnusedMethod})
	}

	var errors, infos int
	for _, issue := range c.Issues() {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityInfo:
			infos++
		}
	}
	assert.Equal(t, 3, errors)
	assert.Equal(t, 4, infos, "three unused_method plus the cap notice")
}

func TestCollector_ZeroCapMeansDefault(t *testing.T) {
	c := NewCollector(0)
	c.Add(Issue{Severity: SeverityWarning, Code: CodeUnknownRootKey})
	assert.Len(t, c.Issues(), 1)
	assert.Equal(t, 1, c.WarningCount())
}

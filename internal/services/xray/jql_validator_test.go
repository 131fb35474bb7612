package xray

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

func TestValidateJQLAccepts(t *testing.T) {
	tests := []struct {
		name string
		jql  string
	}{
		{"simple equality", `project = PROJ`},
		{"quoted value", `project = "My Project"`},
		{"single quoted value", `summary ~ 'login flow'`},
		{"and/or chain", `project = PROJ and status = Open or priority = High`},
		{"not prefix", `not status = Closed`},
		{"grouping", `(project = PROJ and status = Open) or (project = OTHER)`},
		{"in list", `status in (Open, "In Progress", Closed)`},
		{"not in list", `labels not in (automated, manual)`},
		{"is empty", `resolution is empty`},
		{"is not null", `assignee is not null`},
		{"was operator", `status was Closed`},
		{"was not in", `status was not in (Open, Reopened)`},
		{"changed", `status changed`},
		{"comparison operators", `created >= -30d and updated <= now()`},
		{"contains operators", `summary ~ "smoke" and description !~ "legacy"`},
		{"function values", `assignee = currentUser() and created > startOfDay()`},
		{"date helpers", `created >= startOfWeek() and created <= endOfMonth()`},
		{"durations", `updated >= -2w and created <= +30d`},
		{"numbers", `id = 10001`},
		{"order by", `project = PROJ order by created desc`},
		{"order by multiple", `project = PROJ order by priority asc, created desc`},
		{"case insensitive keywords", `PROJECT = PROJ AND STATUS = Open ORDER BY created DESC`},
		{"escaped quotes", `summary ~ "say \"hello\""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validated, err := ValidateJQL(tt.jql)
			require.NoError(t, err)
			assert.NotEmpty(t, validated)
		})
	}
}

func TestValidateJQLRejects(t *testing.T) {
	tests := []struct {
		name string
		jql  string
	}{
		{"empty", ``},
		{"whitespace only", `   `},
		{"semicolon injection", `project = FRAMED; DROP TABLE`},
		{"unknown field", `secretField = x`},
		{"sql keywords as field", `select = 1`},
		{"unknown function", `assignee = membersOf("admins")`},
		{"bare operator", `= PROJ`},
		{"missing value", `project =`},
		{"unbalanced parens", `(project = PROJ`},
		{"unbalanced quotes", `summary ~ "oops`},
		{"template injection", `summary ~ ${payload}`},
		{"html tag", `description ~ <script>`},
		{"field without operator", `project PROJ`},
		{"unknown order by field", `project = PROJ order by secretField`},
		{"trailing garbage", `project = PROJ status`},
		{"comment injection", `project = PROJ -- drop`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJQL(tt.jql)
			require.Error(t, err)
			assert.Equal(t, xrayerrors.KindValidation, xrayerrors.KindOf(err))
		})
	}
}

func TestValidateJQLNamesOffendingField(t *testing.T) {
	_, err := ValidateJQL(`bogusField = 1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogusField")
}

func TestValidateJQLLengthCapBeforeTokenize(t *testing.T) {
	// Oversized input full of characters the tokenizer would reject: the cap
	// must fire first.
	long := strings.Repeat(";", maxJQLLength+1)
	_, err := ValidateJQL(long)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too long")
}

func TestValidateJQLNormalizesWhitespace(t *testing.T) {
	validated, err := ValidateJQL("project   =    PROJ   and\tstatus =  Open")
	require.NoError(t, err)
	assert.Equal(t, `project = PROJ and status = Open`, validated)
}

func TestValidateJQLNormalizationIdempotent(t *testing.T) {
	inputs := []string{
		`project = PROJ and status in (Open, Closed)`,
		`assignee = currentUser() order by created desc`,
		`summary ~ "hello world" and created >= -30d`,
		`(project = PROJ or project = OTHER) and resolution is empty`,
	}

	for _, input := range inputs {
		once, err := ValidateJQL(input)
		require.NoError(t, err, input)

		twice, err := ValidateJQL(once)
		require.NoError(t, err, once)
		assert.Equal(t, once, twice)
	}
}

func TestValidateJQLCanonicalizesFieldCase(t *testing.T) {
	validated, err := ValidateJQL(`ISSUETYPE = Test and fixversion = "1.0"`)
	require.NoError(t, err)
	assert.Contains(t, validated, "issueType")
	assert.Contains(t, validated, "fixVersion")
}

func TestValidateJQLNoUpstreamConstructsInsideStrings(t *testing.T) {
	// Quoted strings are opaque literals; suspicious content inside them is
	// allowed because it never leaves the literal.
	_, err := ValidateJQL(`summary ~ "DROP TABLE users"`)
	assert.NoError(t, err)
}

package recruitapi

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Encode(t *testing.T) {
	q := NewQuery().
		WithTake(20).
		WithSkip(40).
		Where("jobId", OpEq, "job-1").
		In("status", "pending", "reviewed").
		WithInclude("JobPost")

	assert.Equal(t, "t=20;sk=40;w=jobId:eq:job-1;w=status:in:pending,reviewed;i=JobPost", q.Encode())
}

func TestQuery_EmptyEncodesNothing(t *testing.T) {
	assert.Equal(t, "", NewQuery().Encode())
	assert.Empty(t, NewQuery().Values())
}

func TestQuery_ValuesAreEscaped(t *testing.T) {
	q := NewQuery().WithTake(5).Where("coverLetter", OpLike, "react & go")

	encoded := q.Values().Encode()
	assert.Equal(t, "q=t%3D5%3Bw%3DcoverLetter%3Alike%3Areact+%26+go", encoded)

	decoded, err := url.ParseQuery(encoded)
	require.NoError(t, err)
	assert.Equal(t, q.Encode(), decoded.Get("q"))
}

func TestQuery_BuildersDoNotAlias(t *testing.T) {
	base := NewQuery().Where("jobId", OpEq, "a")
	left := base.Where("status", OpEq, "pending")
	right := base.Where("status", OpEq, "hired")

	assert.Len(t, base.Filters, 1)
	assert.Equal(t, "pending", left.Filters[1].Value)
	assert.Equal(t, "hired", right.Filters[1].Value)
}

func TestParseQuery_RoundTrip(t *testing.T) {
	q := NewQuery().WithTake(10).WithSkip(3).Where("status", OpEq, "pending").WithInclude("JobPost")

	parsed, err := ParseQuery(q.Encode())
	require.NoError(t, err)
	assert.Equal(t, q, parsed)

	status, ok := parsed.Equal("status")
	assert.True(t, ok)
	assert.Equal(t, "pending", status)

	_, ok = parsed.Equal("jobId")
	assert.False(t, ok)
}

func TestParseQuery_ValueMayContainColons(t *testing.T) {
	parsed, err := ParseQuery("w=appliedAt:gte:2024-01-01T00:00:00Z")
	require.NoError(t, err)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, "2024-01-01T00:00:00Z", parsed.Filters[0].Value)
}

func TestParseQuery_Errors(t *testing.T) {
	for _, raw := range []string{"t=ten", "sk=-1", "w=status:between:1", "w=status", "x=1", "novalue"} {
		_, err := ParseQuery(raw)
		assert.Error(t, err, raw)
	}
}

package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkGenerateUniform(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AssignNew("alice", 0, "evening"))
	require.NoError(t, e.ToggleDayStatus(3))

	filled, err := e.BulkGenerate(GenerateUniform, []string{"late"})
	require.NoError(t, err)

	// 在职员工 alice、bob、carol，6 个营业日，减去已有的一个排班
	assert.Equal(t, 3*6-1, filled)

	days := e.Days()
	// 不覆盖已有排班
	assert.Equal(t, "evening", days[0].StaffShifts["alice"].TemplateID)
	for i, day := range days {
		if i == 3 {
			assert.Empty(t, day.StaffShifts)
			continue
		}
		for _, id := range []string{"alice", "bob", "carol"} {
			if i == 0 && id == "alice" {
				continue
			}
			assert.Equal(t, "late", day.StaffShifts[id].TemplateID, "day %d staff %s", i, id)
		}
		// 离职员工不参与
		assert.NotContains(t, day.StaffShifts, "dave")
	}
}

func TestBulkGenerateRespectsAreaFilter(t *testing.T) {
	e := newTestEngine(t)
	e.SetAreaFilter("kitchen")

	_, err := e.BulkGenerate(GenerateUniform, []string{"morning"})
	require.NoError(t, err)

	for _, day := range e.Days() {
		require.Len(t, day.StaffShifts, 1)
		assignment := day.StaffShifts["bob"]
		assert.Equal(t, "morning", assignment.TemplateID)
		require.NotNil(t, assignment.AreaID)
		assert.Equal(t, "kitchen", *assignment.AreaID)
	}
}

func TestBulkGeneratePattern(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.BulkGenerate(GeneratePattern, nil)
	require.NoError(t, err)

	templates := testTemplates()
	roster := []string{"alice", "bob", "carol"}
	days := e.Days()
	for dayIndex, day := range days {
		for staffIndex, staffID := range roster {
			want := templates[(dayIndex+staffIndex)%len(templates)].ID
			assert.Equal(t, want, day.StaffShifts[staffID].TemplateID, "day %d staff %s", dayIndex, staffID)
		}
	}

	assert.Equal(t, "morning", days[0].StaffShifts["alice"].TemplateID)
	assert.Equal(t, "late", days[0].StaffShifts["bob"].TemplateID)
	assert.Equal(t, "late", days[1].StaffShifts["alice"].TemplateID)
}

func TestBulkGenerateRandom(t *testing.T) {
	e := newTestEngine(t)
	e.SetRandSource(rand.New(rand.NewSource(1)))

	pool := []string{"morning", "evening"}
	filled, err := e.BulkGenerate(GenerateRandom, pool)
	require.NoError(t, err)
	assert.Equal(t, 3*7, filled)

	for _, day := range e.Days() {
		for _, assignment := range day.StaffShifts {
			assert.Contains(t, pool, assignment.TemplateID)
		}
	}
}

func TestBulkGenerateIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.BulkGenerate(GeneratePattern, nil)
	require.NoError(t, err)
	before := e.Days()

	filled, err := e.BulkGenerate(GenerateUniform, []string{"evening"})
	require.NoError(t, err)
	assert.Zero(t, filled)
	assert.Equal(t, before, e.Days())
}

func TestBulkGenerateRejections(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.BulkGenerate(GenerateUniform, nil)
	assert.ErrorIs(t, err, ErrEmptyPool)

	_, err = e.BulkGenerate(GenerateRandom, []string{"morning", "missing"})
	assert.ErrorIs(t, err, ErrUnknownTemplate)

	_, err = e.BulkGenerate(GenerateMode("solver"), []string{"morning"})
	assert.ErrorIs(t, err, ErrInvalidMode)

	days := BuildGrid(nil, mustDate(t, "2024-03-04"), 2, ClosedDayPolicy{})
	_, err = New(days, testStaff(), nil).BulkGenerate(GeneratePattern, nil)
	assert.ErrorIs(t, err, ErrNoTemplates)

	for _, day := range e.Days() {
		assert.Empty(t, day.StaffShifts)
	}
}

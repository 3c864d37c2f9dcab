package seed

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(username string) (int64, error) {
	switch username {
	case "kimjs":
		return 7, nil
	case "leehy":
		return 8, nil
	default:
		return 0, errors.New("用户不存在")
	}
}

func TestParseWorkIntervalCSV(t *testing.T) {
	data := `用户名,开始时间,结束时间,备注
kimjs,2024-03-04 09:00,2024-03-04 18:00,
leehy,2024-03-04 22:10,2024-03-05 06:20,夜班
`

	intervals, err := ParseWorkIntervalCSV(strings.NewReader(data), 3, lookup)
	require.NoError(t, err)
	require.Len(t, intervals, 2)

	assert.Equal(t, int64(3), intervals[0].StoreID)
	assert.Equal(t, int64(7), intervals[0].AccountID)
	assert.Equal(t, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), intervals[0].Start)
	assert.Equal(t, time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC), intervals[0].End)

	assert.Equal(t, int64(8), intervals[1].AccountID)
	assert.Equal(t, time.Date(2024, 3, 5, 6, 20, 0, 0, time.UTC), intervals[1].End)
}

func TestParseWorkIntervalCSV_ColumnOrder(t *testing.T) {
	data := "结束时间,用户名,开始时间\n2024-03-04 18:00,kimjs,2024-03-04 09:00\n"

	intervals, err := ParseWorkIntervalCSV(strings.NewReader(data), 3, lookup)
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), intervals[0].Start)
}

func TestParseWorkIntervalCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "missing column", data: "用户名,开始时间\nkimjs,2024-03-04 09:00\n"},
		{name: "unknown user", data: "用户名,开始时间,结束时间\nparkms,2024-03-04 09:00,2024-03-04 18:00\n"},
		{name: "bad start", data: "用户名,开始时间,结束时间\nkimjs,09:00,2024-03-04 18:00\n"},
		{name: "bad end", data: "用户名,开始时间,结束时间\nkimjs,2024-03-04 09:00,18:00\n"},
		{name: "end before start", data: "用户名,开始时间,结束时间\nkimjs,2024-03-04 18:00,2024-03-04 09:00\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWorkIntervalCSV(strings.NewReader(tt.data), 3, lookup)
			assert.Error(t, err)
		})
	}
}

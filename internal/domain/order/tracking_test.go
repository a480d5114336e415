package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline(t *testing.T) {
	tests := []struct {
		status     Status
		wantStates []string
	}{
		{StatusPending, []string{StageCurrent, StagePending, StagePending, StagePending, StagePending}},
		{StatusConfirmed, []string{StageComplete, StageCurrent, StagePending, StagePending, StagePending}},
		{StatusPreparing, []string{StageComplete, StageComplete, StageCurrent, StagePending, StagePending}},
		{StatusOutForDelivery, []string{StageComplete, StageComplete, StageComplete, StageCurrent, StagePending}},
		{StatusDelivered, []string{StageComplete, StageComplete, StageComplete, StageComplete, StageCurrent}},
		{StatusCancelled, []string{StagePending, StagePending, StagePending, StagePending, StagePending}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			stages := Timeline(tt.status)
			require.Len(t, stages, 5)
			for i, want := range tt.wantStates {
				assert.Equal(t, want, stages[i].State, "stage %s", stages[i].Name)
			}
		})
	}
}

func TestTimelineStageNames(t *testing.T) {
	stages := Timeline(StatusPending)
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"placed", "confirmed", "preparing", "out-for-delivery", "delivered"}, names)
}

package workers

import (
	"channel-gate/domain"
	"channel-gate/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHealthWorker_Collect(t *testing.T) {
	ctrl := gomock.NewController(t)
	scheduler := mocks.NewMockIScheduler(ctrl)
	directory := mocks.NewMockIIdentityDirectory(ctrl)
	worker := NewHealthWorker(slog.Default(), scheduler, directory, time.Minute)

	t.Run("should count channels and sessions", func(t *testing.T) {
		req := require.New(t)
		scheduler.EXPECT().Active().Return([]domain.ChannelName{"private-a", "private-b"})
		directory.EXPECT().List().Return([]domain.Identity{{ID: "bob"}}, nil)

		stats := worker.Collect(nil)

		req.Equal(HealthStats{ActiveChannels: 2, Sessions: 1}, stats)
	})

	t.Run("should keep going when the directory fails", func(t *testing.T) {
		req := require.New(t)
		scheduler.EXPECT().Active().Return(nil)
		directory.EXPECT().List().Return(nil, fmt.Errorf("boom"))

		stats := worker.Collect(nil)

		req.Zero(stats.Sessions)
	})
}

func TestHealthWorker_Run(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	scheduler := mocks.NewMockIScheduler(ctrl)
	directory := mocks.NewMockIIdentityDirectory(ctrl)
	scheduler.EXPECT().Active().Return(nil).MinTimes(1)
	directory.EXPECT().List().Return(nil, nil).MinTimes(1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := NewHealthWorker(log, scheduler, directory, 10*time.Millisecond).Run(ctx)

	req.NoError(err)
}

func TestHealthWorker_Disabled(t *testing.T) {
	err := NewHealthWorker(slog.Default(), nil, nil, 0).Run(context.Background())
	require.NoError(t, err)
}

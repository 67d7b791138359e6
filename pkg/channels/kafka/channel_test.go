package kafka_test

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/hirelane/hirelane/pkg/channels/kafka"
	"github.com/stretchr/testify/require"
)

func TestCreateChannel_RequiresBrokers(t *testing.T) {
	t.Parallel()

	_, _, err := kafka.CreateChannel(watermill.NopLogger{}, nil, "hirelane-worker")
	require.ErrorIs(t, err, kafka.ErrNoBrokers)

	_, _, err = kafka.CreateChannel(watermill.NopLogger{}, []string{""}, "hirelane-worker")
	require.ErrorIs(t, err, kafka.ErrNoBrokers)
}

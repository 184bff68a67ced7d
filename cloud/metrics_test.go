package cloud

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMetricsAPI struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeMetricsAPI) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMetricsClient_Disabled(t *testing.T) {
	api := &fakeMetricsAPI{}
	m := NewMetricsClientWithAPI(api, "QueryHub", false)

	require.NoError(t, m.RecordCount(context.Background(), MetricHTTPRequests, nil))
	assert.Empty(t, api.inputs)

	var nilClient *MetricsClient
	assert.False(t, nilClient.IsEnabled())
}

func TestMetricsClient_RecordLatency(t *testing.T) {
	api := &fakeMetricsAPI{}
	m := NewMetricsClientWithAPI(api, "QueryHub", true)

	err := m.RecordLatency(context.Background(), MetricHTTPLatency, 250*time.Millisecond, map[string]string{"Service": "query-hub"})
	require.NoError(t, err)
	require.Len(t, api.inputs, 1)

	in := api.inputs[0]
	assert.Equal(t, "QueryHub", *in.Namespace)
	require.Len(t, in.MetricData, 1)
	datum := in.MetricData[0]
	assert.Equal(t, MetricHTTPLatency, *datum.MetricName)
	assert.Equal(t, 250.0, *datum.Value)
	assert.Equal(t, types.StandardUnitMilliseconds, datum.Unit)
	require.Len(t, datum.Dimensions, 1)
	assert.Equal(t, "Service", *datum.Dimensions[0].Name)
}

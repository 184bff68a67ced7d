package cloud

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsAPI struct {
	values map[string]string
	calls  int
}

func (f *fakeSecretsAPI) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	v, ok := f.values[*in.SecretId]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func TestSecretsClient_CachesValues(t *testing.T) {
	api := &fakeSecretsAPI{values: map[string]string{"queryhub/DB_CREDENTIALS": `{"DB_USER":"hub"}`}}
	sc := NewSecretsClientWithAPI(api)

	for i := 0; i < 3; i++ {
		v, err := sc.GetSecret(context.Background(), "queryhub/DB_CREDENTIALS")
		require.NoError(t, err)
		assert.Equal(t, `{"DB_USER":"hub"}`, v)
	}
	assert.Equal(t, 1, api.calls)
}

func TestSecretsClient_Missing(t *testing.T) {
	sc := NewSecretsClientWithAPI(&fakeSecretsAPI{values: map[string]string{}})

	_, err := sc.GetSecret(context.Background(), "queryhub/missing")
	assert.Error(t, err)
}

package credentials

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.uber.org/zap"

	"github.com/eatwithme/etm-core/sdk/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	logger.DefaultLogger = logger.Logger.Sugar()
	m.Run()
}

func TestCredentials_DSN(t *testing.T) {
	c := Credentials{
		Host:     "db.internal",
		Port:     5432,
		Username: "user_1234567",
		Password: "s3cret",
		DBName:   "tenant_1234567",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal user=user_1234567 password=s3cret dbname=tenant_1234567 port=5432 sslmode=require",
		c.DSN())
}

func TestCredentials_URL_EncodesPassword(t *testing.T) {
	c := Credentials{
		Host:     "db.internal",
		Port:     5432,
		Username: "user_1",
		Password: "p@ss/w:rd",
		DBName:   "tenant_1",
		SSLMode:  "require",
	}
	u := c.URL()
	assert.NotContains(t, u, "p@ss/w:rd")
	assert.Contains(t, u, "p%40ss%2Fw%3Ard")
	assert.Contains(t, u, "sslmode=require")
	assert.Contains(t, u, "/tenant_1")
}

func TestCredentials_RedactionEverywhere(t *testing.T) {
	c := Credentials{
		Host:     "db.internal",
		Port:     5432,
		Username: "u",
		Password: "topsecret",
		DBName:   "tenant_1",
	}

	for _, rendered := range []string{
		c.Redacted(),
		fmt.Sprintf("%v", c),
		fmt.Sprintf("%s", c),
		fmt.Sprintf("%#v", c),
		fmt.Sprintf("resolve failed for %v", c),
	} {
		assert.NotContains(t, rendered, "topsecret")
	}
}

func TestCredentials_Validate(t *testing.T) {
	valid := Credentials{Host: "h", Port: 5432, Username: "u", DBName: "d"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		creds Credentials
	}{
		{"missing host", Credentials{Port: 5432, Username: "u", DBName: "d"}},
		{"missing port", Credentials{Host: "h", Username: "u", DBName: "d"}},
		{"missing user", Credentials{Host: "h", Port: 5432, DBName: "d"}},
		{"missing dbname", Credentials{Host: "h", Port: 5432, Username: "u"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.creds.Validate())
		})
	}
}

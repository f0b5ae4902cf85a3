package auth_test

import (
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/mock"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type staticID string

func (s staticID) NewID() string { return string(s) }

// パスワード系のモック
type hasherMock struct{ mock.Mock }

func (m *hasherMock) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

type verifierMock struct{ mock.Mock }

func (m *verifierMock) Verify(plain string, hashed string) bool {
	return m.Called(plain, hashed).Bool(0)
}

// ログは呼ばれた内容だけ覚えておく
type recordingLogger struct {
	infos []log.JSON
	warns []log.JSON
}

func (l *recordingLogger) Infoj(j log.JSON) { l.infos = append(l.infos, j) }
func (l *recordingLogger) Warnj(j log.JSON) { l.warns = append(l.warns, j) }

var baseTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

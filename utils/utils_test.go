package utils

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/balcao/backend/models"
	"github.com/balcao/backend/repository/memory"
)

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, expiresAt, err := issuer.GenerateToken("u1", "ana", models.RoleCashier)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, models.RoleCashier, claims.Role)

	_, err = NewTokenIssuer("other", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := issuer.GenerateToken("u1", "ana", models.RoleAdmin)
	require.NoError(t, err)
	_, err = issuer.ValidateToken(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3nha")
	require.NoError(t, err)
	assert.NotEqual(t, "s3nha", hash)
	assert.NoError(t, VerifyPassword(hash, "s3nha"))
	assert.Error(t, VerifyPassword(hash, "senha"))
}

type captured struct {
	from string
	to   []string
	body bytes.Buffer
}

func capture(c *captured) gomail.SendFunc {
	return func(from string, to []string, msg io.WriterTo) error {
		c.from, c.to = from, to
		_, err := msg.WriteTo(&c.body)
		return err
	}
}

func TestMailer(t *testing.T) {
	var c captured
	m := NewMailerWithSender("estoque@balcao.local", capture(&c))

	require.NoError(t, m.SendEmail([]string{"gerente@balcao.local"}, "Assunto", "corpo"))
	assert.Equal(t, "estoque@balcao.local", c.from)
	assert.Equal(t, []string{"gerente@balcao.local"}, c.to)
	assert.Contains(t, c.body.String(), "Subject: Assunto")
	assert.Contains(t, c.body.String(), "corpo")
}

func TestStockAlert(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	for _, p := range []models.Product{
		{Code: "A", Name: "Arroz", Stock: 1, StockMin: 5, Unit: "kg"},
		{Code: "L", Name: "Leite", Stock: 8, StockMin: 2, UnitPrice: 4.5, ValidityDate: "01/03/2031"},
		{Code: "F", Name: "Feijao", Stock: 9, StockMin: 2},
	} {
		p := p
		_, err := repos.Products.Insert(ctx, &p)
		require.NoError(t, err)
	}

	var c captured
	alert := NewStockAlert(repos.Products, NewMailerWithSender("a@b", capture(&c)), []string{"m@b"}, zap.NewNop())
	alert.now = func() time.Time { return time.Date(2031, 3, 15, 7, 0, 0, 0, time.Local) }

	digest, err := alert.Run(ctx)
	require.NoError(t, err)
	require.Len(t, digest.BelowMinimum, 1)
	require.Len(t, digest.Expired, 1)
	assert.Equal(t, "Estoque 15/03/2031: 1 abaixo do minimo, 1 vencidos", digest.Subject())
	assert.Contains(t, digest.Body(), "A Arroz: 1 kg (minimo 5)")
	assert.Contains(t, digest.Body(), "R$ 4,50")
	assert.Contains(t, c.body.String(), "Leite")
}

func TestStockAlert_NothingToReport(t *testing.T) {
	var c captured
	alert := NewStockAlert(memory.New().Repositories().Products, NewMailerWithSender("a@b", capture(&c)), []string{"m@b"}, zap.NewNop())

	digest, err := alert.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, digest.Empty())
	assert.Zero(t, c.body.Len())
}

func TestScheduleStockAlert(t *testing.T) {
	alert := NewStockAlert(memory.New().Repositories().Products, nil, nil, zap.NewNop())

	s, err := ScheduleStockAlert(time.UTC, "07:00", alert)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	_, err = ScheduleStockAlert(time.UTC, "7h", alert)
	assert.Error(t, err)
}

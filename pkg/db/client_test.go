package db

import (
	"context"
	"errors"
	"testing"

	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/db/dbtest"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
	"gorm.io/gorm"
)

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	conn := dbtest.Open(t)
	client := FromConn(conn)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&models.AllowedUser{Email: "committed@example.com"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := conn.Model(&models.AllowedUser{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&models.AllowedUser{Email: "rolled@example.com"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := conn.Model(&models.AllowedUser{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	conn := dbtest.Open(t)
	client := FromConn(conn)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&models.AllowedUser{Email: "panic@example.com"}).Error; err != nil {
				return err
			}
			panic("boom")
		})
	}()

	var count int64
	if err := conn.Model(&models.AllowedUser{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected panic rollback, got %d rows", count)
	}
}

func TestPing(t *testing.T) {
	client := FromConn(dbtest.Open(t))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}

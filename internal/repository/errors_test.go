package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "lib/pq unique", err: &pq.Error{Code: "23505"}, want: true},
		{name: "lib/pq not null", err: &pq.Error{Code: "23502"}, want: false},
		{name: "pgx unique wrapped", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "pgx foreign key", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "unrelated", err: errors.New("connection reset"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

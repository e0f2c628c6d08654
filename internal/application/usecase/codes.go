package usecase

import (
	"context"
	"errors"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/masterdata"
)

// codeAttempts intentos de asignar un código visible ante colisiones concurrentes.
const codeAttempts = 3

// nextCode calcula el código siguiente al último persistido.
func nextCode(ctx context.Context, lastCode func(context.Context) (string, error), width int) (string, error) {
	last, err := lastCode(ctx)
	if err != nil {
		return "", err
	}
	return masterdata.NextCode(last, width)
}

// createWithCode asigna un código y crea el registro; reintenta si otro alta ganó el mismo código.
func createWithCode(
	ctx context.Context,
	lastCode func(context.Context) (string, error),
	width int,
	assign func(code string),
	create func(context.Context) error,
) error {
	var err error
	for i := 0; i < codeAttempts; i++ {
		code, cerr := nextCode(ctx, lastCode, width)
		if cerr != nil {
			return cerr
		}
		assign(code)
		if err = create(ctx); !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
	}
	return err
}

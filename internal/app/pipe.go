package app

import (
	"context"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Pipe copies in to stdout while a byte counter runs on stderr. size is the
// expected length, or -1 when unknown, which shows a spinner instead of a bar.
func Pipe(ctx context.Context, cfg Config, in io.Reader, size int64) (int64, error) {
	cfg.setDefaults()

	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(cfg.Stderr),
		progressbar.OptionSetVisibility(cfg.animated()),
		progressbar.OptionSetDescription("Piping"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(cfg.TickRate),
		progressbar.OptionClearOnFinish(),
	)

	n, err := io.Copy(io.MultiWriter(cfg.Stdout, bar), contextReader{ctx: ctx, r: in})
	if finishErr := bar.Finish(); finishErr != nil {
		cfg.Logger.Debug("pipe progress finish failed", zap.Error(finishErr))
	}
	if err != nil {
		return n, fmt.Errorf("failed to pipe: %w", err)
	}
	return n, nil
}

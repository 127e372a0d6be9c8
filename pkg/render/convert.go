package render

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/orakul/orakul/pkg/errors"
)

// rsvgConvert is the librsvg converter binary.
const rsvgConvert = "rsvg-convert"

// ToPDF converts SVG bytes to PDF with rsvg-convert. The command is killed
// when ctx is done.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	bin, err := exec.LookPath(rsvgConvert)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"pdf export requires librsvg (brew install librsvg, apt install librsvg2-bin)")
	}

	cmd := exec.CommandContext(ctx, bin, "-f", "pdf")
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rsvgConvert, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}

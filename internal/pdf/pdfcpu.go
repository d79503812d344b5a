package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

type engine struct{}

// NewEngine returns the pdfcpu-backed Engine.
func NewEngine() Engine {
	return &engine{}
}

func (e *engine) Text(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("failed to read extracted text: %w", err)
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	return text, nil
}

func (e *engine) PageCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrEmptyDocument
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}

	return count, nil
}

func (e *engine) EmbedPlaceholders(data []byte, anchor Anchor, count int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	// pdfcpu page selectors are 1-indexed while anchors carry
	// 0-indexed pages.
	pages := []string{fmt.Sprintf("%d", anchor.Page+1)}

	current := data
	for i := 0; i < count; i++ {
		desc := fmt.Sprintf(
			"fontname:Helvetica, points:10, scale:1 abs, pos:bl, off:%.0f %.0f, rot:0, op:.9",
			anchor.ColumnX, anchor.RowY(i),
		)

		wm, err := api.TextWatermark(fmt.Sprintf("Signature_%d", i+1), desc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("failed to build placeholder %d: %w", i+1, err)
		}

		var buf bytes.Buffer
		if err := api.AddWatermarks(bytes.NewReader(current), &buf, pages, wm, nil); err != nil {
			return nil, fmt.Errorf("failed to embed placeholder %d: %w", i+1, err)
		}

		current = buf.Bytes()
	}

	return current, nil
}

func (e *engine) AppendTrailerPage(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	pageConf := &pdfcpu.PageConfiguration{
		PageDim:  &types.Dim{Width: LetterWidth, Height: LetterHeight},
		PageSize: "Letter",
		UserDim:  true,
		InpUnit:  types.POINTS,
	}

	var buf bytes.Buffer
	if err := api.InsertPages(bytes.NewReader(data), &buf, []string{"l"}, false, pageConf, nil); err != nil {
		return nil, fmt.Errorf("failed to append trailer page: %w", err)
	}

	return buf.Bytes(), nil
}

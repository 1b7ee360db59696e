// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/coworker-tui/internal/ui/gallery"
)

// HandleGallery handles the "gallery" command. It prints every card type
// in its notable states, or only the types named in args.Kinds.
func HandleGallery(w io.Writer, args Args, maxWidth int) error {
	for _, k := range args.Kinds {
		if !isKind(k) {
			return NewValidationErrorWithExample("card type", k,
				"expected one of "+strings.Join(gallery.Kinds, ", "), "coworker gallery prompt choice")
		}
	}

	width := RenderWidth(args.Width, maxWidth)
	_, err := fmt.Fprintln(w, gallery.Render(width, args.Kinds...))
	return err
}

func isKind(k string) bool {
	for _, known := range gallery.Kinds {
		if strings.EqualFold(k, known) {
			return true
		}
	}
	return false
}

package cli

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const tablePadding = 2

// writeTable prints rows aligned by display width. Cells may carry ANSI
// color; widths are computed on the stripped text.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	measure := func(index int, value string) {
		if index >= colCount {
			return
		}
		w := runewidth.StringWidth(stripANSI(value))
		if w > widths[index] {
			widths[index] = w
		}
	}
	for idx, header := range headers {
		measure(idx, header)
	}
	for _, row := range rows {
		for idx, cell := range row {
			measure(idx, cell)
		}
	}

	writer := bufio.NewWriter(out)
	var writeErr error
	put := func(value string) {
		if writeErr != nil {
			return
		}
		_, writeErr = writer.WriteString(value)
	}
	putRow := func(row []string) {
		for idx := 0; idx < colCount; idx++ {
			cell := ""
			if idx < len(row) {
				cell = row[idx]
			}
			put(cell)
			if idx < colCount-1 {
				pad := widths[idx] - runewidth.StringWidth(stripANSI(cell))
				if pad < 0 {
					pad = 0
				}
				put(strings.Repeat(" ", pad+tablePadding))
			}
		}
		put("\n")
	}

	putRow(headers)
	for _, row := range rows {
		putRow(row)
	}
	if writeErr != nil {
		return writeErr
	}
	return writer.Flush()
}

func stripANSI(value string) string {
	if !strings.ContainsRune(value, 0x1b) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] != 0x1b || i+1 >= len(value) || value[i+1] != '[' {
			b.WriteByte(value[i])
			continue
		}
		i += 2
		for i < len(value) {
			ch := value[i]
			if ch >= 0x40 && ch <= 0x7e {
				break
			}
			i++
		}
	}
	return b.String()
}

// Package printing renders order sheets to PDF.
//
// This package contains:
// - PDFRenderer interface for rendering HTML to PDF
// - ChromedpRenderer implementation using the Chrome DevTools Protocol
// - WkhtmltopdfRenderer fallback using the wkhtmltopdf command-line tool
// - OrderSheetPrinter which builds the Korean order sheet HTML and renders it
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	printer, err := NewOrderSheetPrinter(renderer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := printer.Print(ctx, NewOrderSheetData(order, "행복한_팬더#0042"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Generated PDF: %d bytes\n", len(result.PDFData))
package printing

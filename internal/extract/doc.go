// Package extract obtains the text of a document for naming: the PDF text
// layer via pdftotext, with OCR fallback through pdftoppm and either
// tesseract or the oracle's vision model.
//
// Split: extract.go (interface, Chain), exec.go (tool runner), errors.go
// (stderr classification), pdftotext.go, ocr.go.
package extract

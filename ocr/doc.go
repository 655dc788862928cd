// Package ocr turns OCR engine output into detections for clustering.
//
// Two sources are supported. [DecodePaddle] reads the JSON that PaddleOCR
// writes for a predict call and is always available. [Client] runs
// Tesseract through gosseract and reports one detection per text line; it
// requires the "ocr" build tag and a system Tesseract install:
//
//	go build -tags ocr
//
// On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Without the tag every Client method returns [ErrOCRNotEnabled].
package ocr

// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// pageText 单页正文
func pageText(reader *model.PdfReader, n int) (string, error) {
	page, err := reader.GetPage(n)
	if err != nil {
		return "", err
	}
	ex, err := extractor.New(page)
	if err != nil {
		return "", err
	}
	text, err := ex.ExtractText()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ExtractPDFText 按页提取正文并以空行拼接；单页失败时跳过该页，全部失败才报错
func ExtractPDFText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	n, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("count pages: %w", err)
	}

	var (
		b       strings.Builder
		lastErr error
		failed  int
	)
	for i := 1; i <= n; i++ {
		text, err := pageText(reader, i)
		if err != nil {
			failed++
			lastErr = fmt.Errorf("page %d: %w", i, err)
			continue
		}
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	if n > 0 && failed == n {
		return "", lastErr
	}
	return b.String(), nil
}

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

// Package query 知识库检索：TF-IDF 向量化与余弦相似度排序
package query

import (
	"math"
	"sort"

	"iiot-responder/internal/pipeline/ingest"
)

// DefaultSnippetChars 命中片段默认长度（字符）
const DefaultSnippetChars = 300

// Hit 一条检索命中
type Hit struct {
	ID      string  `json:"id"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// Option 检索器选项
type Option func(*Retriever)

// WithSnippetChars 设置片段长度，<=0 忽略
func WithSnippetChars(n int) Option {
	return func(r *Retriever) {
		if n > 0 {
			r.snippetChars = n
		}
	}
}

// Retriever TF-IDF 检索器；索引在构造时一次建立，之后只读，可并发查询
type Retriever struct {
	ids          []string
	snippets     []string
	vocab        map[string]int
	idf          []float64
	docVecs      []sparseVec
	snippetChars int
}

// sparseVec 按词表下标升序排列的稀疏向量，保证求和顺序确定
type sparseVec []term

type term struct {
	idx int
	w   float64
}

// NewRetriever 对 docs 建立索引：原始词频 × 平滑 IDF（ln((1+n)/(1+df))+1），再做 L2 归一化
func NewRetriever(docs []ingest.Document, opts ...Option) *Retriever {
	r := &Retriever{
		vocab:        make(map[string]int),
		snippetChars: DefaultSnippetChars,
	}
	for _, opt := range opts {
		opt(r)
	}

	counts := make([]map[int]int, len(docs))
	var df []int
	for i, d := range docs {
		tf := make(map[int]int)
		for _, tok := range Tokenize(d.Text) {
			idx, ok := r.vocab[tok]
			if !ok {
				idx = len(r.vocab)
				r.vocab[tok] = idx
				df = append(df, 0)
			}
			if tf[idx] == 0 {
				df[idx]++
			}
			tf[idx]++
		}
		counts[i] = tf
	}

	n := float64(len(docs))
	r.idf = make([]float64, len(df))
	for i, f := range df {
		r.idf[i] = math.Log((1+n)/(1+float64(f))) + 1
	}

	r.ids = make([]string, len(docs))
	r.snippets = make([]string, len(docs))
	r.docVecs = make([]sparseVec, len(docs))
	for i, d := range docs {
		r.ids[i] = d.ID
		r.snippets[i] = prefixRunes(d.Text, r.snippetChars)
		r.docVecs[i] = r.weigh(counts[i])
	}
	return r
}

// Len 语料篇数
func (r *Retriever) Len() int {
	return len(r.ids)
}

// Query 返回按相似度降序的前 topK 条命中，同分保持语料顺序。
// 空语料返回空切片；查询词全部不在词表中时所有分数为 0
func (r *Retriever) Query(text string, topK int) []Hit {
	if len(r.ids) == 0 || topK <= 0 {
		return []Hit{}
	}
	qv := r.vectorize(text)

	order := make([]int, len(r.ids))
	scores := make([]float64, len(r.ids))
	for i := range r.ids {
		order[i] = i
		scores[i] = dot(qv, r.docVecs[i])
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if topK > len(order) {
		topK = len(order)
	}

	hits := make([]Hit, 0, topK)
	for _, i := range order[:topK] {
		hits = append(hits, Hit{ID: r.ids[i], Snippet: r.snippets[i], Score: scores[i]})
	}
	return hits
}

// vectorize 用语料词表与 IDF 将文本转为 L2 归一化稀疏向量；未登录词忽略
func (r *Retriever) vectorize(text string) sparseVec {
	tf := make(map[int]int)
	for _, tok := range Tokenize(text) {
		if idx, ok := r.vocab[tok]; ok {
			tf[idx]++
		}
	}
	return r.weigh(tf)
}

func (r *Retriever) weigh(tf map[int]int) sparseVec {
	vec := make(sparseVec, 0, len(tf))
	for idx, c := range tf {
		vec = append(vec, term{idx: idx, w: float64(c) * r.idf[idx]})
	}
	sort.Slice(vec, func(a, b int) bool { return vec[a].idx < vec[b].idx })

	norm := 0.0
	for _, t := range vec {
		norm += t.w * t.w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].w /= norm
	}
	return vec
}

// dot 两个有序稀疏向量的点积
func dot(a, b sparseVec) float64 {
	s := 0.0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].idx == b[j].idx:
			s += a[i].w * b[j].w
			i++
			j++
		case a[i].idx < b[j].idx:
			i++
		default:
			j++
		}
	}
	return s
}

func prefixRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

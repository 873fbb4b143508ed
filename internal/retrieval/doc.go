// Package retrieval ranks corpus sections with tf-idf cosine similarity,
// an optional BM25 blend and a definitional boost for overview questions.
package retrieval

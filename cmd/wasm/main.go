//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"ragtour/internal/adapter/analyzer"
	"ragtour/internal/adapter/chunker"
	"ragtour/internal/adapter/embedding"
	"ragtour/internal/adapter/evaluator"
	"ragtour/internal/adapter/fixture"
	"ragtour/internal/adapter/llm"
	"ragtour/internal/adapter/memstore"
	"ragtour/internal/adapter/presenter"
	"ragtour/internal/adapter/random"
	"ragtour/internal/adapter/retriever"
	"ragtour/internal/logging"
	"ragtour/internal/usecase"
)

var pipeline *usecase.Pipeline

func init() {
	f, err := fixture.Default()
	if err != nil {
		panic(err)
	}

	store := memstore.NewVectorStore()
	tokenizer := analyzer.NewTokenizer()
	rng := random.NewSource(0)

	pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Catalog: usecase.Catalog{
			Documents:   f.Documents,
			Embeddings:  f.Embeddings,
			Suggestions: f.Suggestions,
		},
		Chunker:   chunker.NewDocumentChunker(tokenizer),
		Store:     store,
		Embedder:  embedding.NewKeywordEmbedder(f),
		Retriever: retriever.NewVectorRetriever(store),
		Reranker:  retriever.NewCrossEncoderReranker(rng, retriever.DefaultJitterMin, retriever.DefaultJitterMax),
		Prompts:   usecase.NewPromptUseCase(tokenizer),
		LLM:       llm.NewCannedLLM(f),
		Evaluator: evaluator.NewRandomEvaluator(rng, evaluator.DefaultConfidence, evaluator.DefaultRelevance),
		Tokenizer: tokenizer,
		Presenter: presenter.Discard,
		Logger:    logging.Discard(),
		MaxChunk:  chunker.MaxChunkTokens,
	})
}

func main() {
	c := make(chan struct{})

	js.Global().Set("ragIngest", js.FuncOf(ingest))
	js.Global().Set("ragQuery", js.FuncOf(query))
	js.Global().Set("ragFeedback", js.FuncOf(feedback))
	js.Global().Set("ragGraph", js.FuncOf(graph))
	js.Global().Set("ragState", js.FuncOf(state))
	js.Global().Set("ragSuggestions", js.FuncOf(suggestions))

	<-c
}

func ingest(this js.Value, args []js.Value) interface{} {
	report, err := pipeline.Ingest(context.Background())
	if err != nil {
		return makeError("ingestion failed: " + err.Error())
	}
	return makeResult(report)
}

func query(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: ragQuery(question)")
	}

	session, err := pipeline.Query(context.Background(), args[0].String())
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(session)
}

func feedback(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: ragFeedback('up' | 'down')")
	}
	if err := pipeline.RecordFeedback(args[0].String()); err != nil {
		return makeError(err.Error())
	}
	return makeResult(map[string]interface{}{"success": true})
}

func graph(this js.Value, args []js.Value) interface{} {
	g, err := pipeline.Graph()
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(g)
}

func state(this js.Value, args []js.Value) interface{} {
	return makeResult(map[string]interface{}{
		"state": pipeline.State().String(),
	})
}

func suggestions(this js.Value, args []js.Value) interface{} {
	return makeResult(map[string]interface{}{
		"suggestions": pipeline.Suggestions(),
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data interface{}) interface{} {
	result, err := json.Marshal(data)
	if err != nil {
		return makeError(err.Error())
	}
	return string(result)
}

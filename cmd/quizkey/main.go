package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/af-corp/mathforge/internal/quiz"
)

type keyView struct {
	AnswerID string        `json:"answer_id"`
	Family   quiz.Family   `json:"family"`
	Question quiz.Question `json:"question"`
	Answer   float64       `json:"answer"`
}

func main() {
	family := flag.String("type", "", "quiz family to generate: arithmetic, algebra, geometry (random when empty)")
	seed := flag.Uint64("seed", 0, "generator seed (0 for random)")
	decode := flag.String("decode", "", "answer_id to decode instead of generating")
	answer := flag.String("answer", "", "answer to check against -decode")
	flag.Parse()

	if *answer != "" && *decode == "" {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "\nerror: -answer requires -decode")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *decode == "" {
		gen := quiz.NewGenerator(*seed)
		f := quiz.Family(*family)
		if f == "" {
			f = gen.RandomFamily()
		}
		_, k, err := gen.Generate(f)
		if err != nil {
			log.Fatalf("failed to generate question: %v", err)
		}
		emit(enc, view(k))
		return
	}

	if *answer != "" {
		x, err := parseAnswer(*answer)
		if err != nil {
			log.Fatalf("invalid answer: %v", err)
		}
		v, err := quiz.Check(*decode, x)
		if err != nil {
			log.Fatalf("failed to check answer: %v", err)
		}
		emit(enc, v)
		return
	}

	k, err := quiz.DecodeKey(*decode)
	if err != nil {
		log.Fatalf("failed to decode key: %v", err)
	}
	emit(enc, view(k))
}

// parseAnswer accepts finite decimal answers only.
func parseAnswer(s string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return x, nil
}

func emit(enc *json.Encoder, v any) {
	if err := enc.Encode(v); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}
}

func view(k quiz.Key) keyView {
	return keyView{
		AnswerID: k.Encode(),
		Family:   k.Family,
		Question: k.Question(),
		Answer:   k.Answer(),
	}
}

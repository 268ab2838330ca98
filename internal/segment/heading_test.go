package segment

import "testing"

func TestAcademicClassifier_Classify(t *testing.T) {
	classifier := NewAcademicClassifier()

	tests := []struct {
		name    string
		line    string
		want    bool
		wantLbl string
	}{
		{name: "vocabulary match", line: "Abstract", want: true, wantLbl: "Abstract"},
		{name: "vocabulary match case-insensitive", line: "RELATED WORK", want: true, wantLbl: "RELATED WORK"},
		{name: "vocabulary match lowercase", line: "conclusions", want: true, wantLbl: "conclusions"},
		{name: "numbered heading", line: "1 Introduction", want: true, wantLbl: "1 Introduction"},
		{name: "nested numbered heading", line: "2.3 Ablation Study", want: true, wantLbl: "2.3 Ablation Study"},
		{name: "numbered with trailing dot", line: "4. Evaluation", want: true, wantLbl: "4. Evaluation"},
		{name: "short all caps", line: "EXPERIMENTAL SETUP", want: true, wantLbl: "EXPERIMENTAL SETUP"},
		{name: "long numbered line is not a heading", line: "1 " + longSentence(), want: false},
		{name: "regular sentence", line: "We propose a new method for retrieval.", want: false},
		{name: "mixed case sentence", line: "The Results were surprising", want: false},
		{name: "bare number", line: "42", want: false},
		{name: "empty line", line: "", want: false},
		{name: "all caps but too many words", line: "A B C D E F G H I J K L", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, got := classifier.Classify(tt.line)
			if got != tt.want {
				t.Fatalf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
			}
			if got && label != tt.wantLbl {
				t.Errorf("Classify(%q) label = %q, want %q", tt.line, label, tt.wantLbl)
			}
		})
	}
}

func longSentence() string {
	s := "a long descriptive sentence that keeps going well past any plausible heading length limit"
	return s
}

package classify

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		url  string
		want Strategy
	}{
		{"https://www.linkedin.com/jobs/view/3959722886", StrategyBrowser},
		{"https://www.linkedin.com/jobs/collections/recommended/?currentJobId=4070067137", StrategyBrowser},
		{"https://linkedin.com/jobs/view/1", StrategyBrowser},
		{"https://www.linkedin.com/in/someone", StrategyStatic},
		{"https://boards.greenhouse.io/acme/jobs/123", StrategyStatic},
		{"https://example.com/careers/42", StrategyStatic},
		{"https://notlinkedin.com/jobs/view/1", StrategyStatic},
		{"not a url at all", StrategyStatic},
		{"", StrategyStatic},
	}

	for _, tc := range cases {
		if got := Classify(tc.url); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	url := "https://www.linkedin.com/jobs/view/3959722886"
	first := Classify(url)
	for i := 0; i < 100; i++ {
		if got := Classify(url); got != first {
			t.Fatalf("Classify returned %q then %q for the same URL", first, got)
		}
	}
}

package prompts

import "testing"

func TestToRemoteContent(t *testing.T) {
	local := "Analysis data for {ticker}:\n{analysis_data}\n\nReturn JSON:\n{{\n  \"signal\": \"bullish\"\n}}"
	want := "Analysis data for {{ticker}}:\n{{analysis_data}}\n\nReturn JSON:\n{\n  \"signal\": \"bullish\"\n}"
	if got := ToRemoteContent(local); got != want {
		t.Fatalf("ToRemoteContent:\ngot  %q\nwant %q", got, want)
	}
}

func TestToLocalContent(t *testing.T) {
	remote := "Analysis data for {{ticker}}:\n{{analysis_data}}\n\nReturn JSON:\n{\n  \"signal\": \"bullish\"\n}"
	want := "Analysis data for {ticker}:\n{analysis_data}\n\nReturn JSON:\n{{\n  \"signal\": \"bullish\"\n}}"
	if got := ToLocalContent(remote); got != want {
		t.Fatalf("ToLocalContent:\ngot  %q\nwant %q", got, want)
	}
}

func TestTranslationRoundTripsAllDefaults(t *testing.T) {
	for _, name := range Names() {
		msgs, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
		for i, m := range msgs {
			back := ToLocalContent(ToRemoteContent(m.Content))
			if back != m.Content {
				t.Fatalf("%s message %d does not survive a round trip", name, i)
			}
		}
	}
}

func TestMessagesEqual(t *testing.T) {
	a := []Message{{Role: "system", Content: "x"}, {Role: "human", Content: "y"}}

	if !MessagesEqual(a, []Message{{Role: "system", Content: "x"}, {Role: "human", Content: "y"}}) {
		t.Fatal("identical templates should be equal")
	}
	if MessagesEqual(a, a[:1]) {
		t.Fatal("different lengths should differ")
	}
	if MessagesEqual(a, []Message{{Role: "system", Content: "x"}, {Role: "user", Content: "y"}}) {
		t.Fatal("different roles should differ")
	}
	if MessagesEqual(a, []Message{{Role: "system", Content: "x"}, {Role: "human", Content: "y "}}) {
		t.Fatal("whitespace difference should differ")
	}
}

func TestRegistryHasAllFourteenPrompts(t *testing.T) {
	names := Names()
	if len(names) != 14 {
		t.Fatalf("expected 14 registered prompts, got %d", len(names))
	}
	for _, name := range names {
		msgs, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
		if len(msgs) == 0 {
			t.Fatalf("%s has an empty template", name)
		}
		if msgs[0].Role != "system" {
			t.Fatalf("%s should start with a system message, got %s", name, msgs[0].Role)
		}
	}
}

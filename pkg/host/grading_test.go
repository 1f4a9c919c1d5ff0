package host

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func contents(texts ...string) []*Content {
	out := make([]*Content, 0, len(texts))
	for _, t := range texts {
		out = append(out, &Content{Text: t})
	}
	return out
}

func TestGradeSingleChoice(t *testing.T) {
	task := &SingleChoiceTask{
		Answers:            contents("red", "green", "blue"),
		CorrectAnswerIndex: 1,
		Points:             3,
	}
	tests := []struct {
		name  string
		given []*Content
		want  float64
	}{
		{"correct", contents("green"), 3},
		{"wrong", contents("red"), 0},
		{"nothing", nil, 0},
		{"correct plus another", contents("green", "red"), 0},
		{"nil answer", []*Content{nil}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradeSingleChoice(task, tt.given); got != tt.want {
				t.Errorf("GradeSingleChoice = %v, want %v", got, tt.want)
			}
		})
	}

	broken := &SingleChoiceTask{Answers: contents("a"), CorrectAnswerIndex: 4, Points: 1}
	if got := GradeSingleChoice(broken, contents("a")); got != 0 {
		t.Errorf("out of range index graded %v", got)
	}
}

func TestGradeMultipleChoice(t *testing.T) {
	task := &MultipleChoiceTask{
		Answers:              contents("a", "b", "c", "d"),
		CorrectAnswerIndices: []int{0, 2},
		Points:               4,
	}
	tests := []struct {
		name  string
		given []*Content
		want  float64
	}{
		{"all correct", contents("a", "c"), 4},
		{"half", contents("c"), 2},
		{"one right one wrong", contents("a", "b"), 0},
		{"only wrong", contents("b", "d"), 0},
		{"repeated answer counts once", contents("a", "a"), 2},
		{"all answers", contents("a", "b", "c", "d"), 0},
		{"nothing", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradeMultipleChoice(task, tt.given); got != tt.want {
				t.Errorf("GradeMultipleChoice = %v, want %v", got, tt.want)
			}
		})
	}

	none := &MultipleChoiceTask{Answers: contents("a"), Points: 4}
	if got := GradeMultipleChoice(none, contents("a")); got != 0 {
		t.Errorf("task without correct answers graded %v", got)
	}
}

func TestAssignScenario(t *testing.T) {
	task := &AssignTask{
		Name: "sort",
		Solution: [][]*Element{
			{{Text: "fruit"}, {Text: "apple"}, {Text: "pear"}},
			{},
			{{Text: "vegetables"}},
			{{Text: "cans"}, {Text: "_"}},
			{{Text: "_"}, {Text: "stone"}},
		},
	}
	rooms := AssignScenario(task)
	if len(rooms) != 1 {
		t.Fatalf("got %d rooms, want 1", len(rooms))
	}
	var names []string
	for _, e := range rooms[0] {
		names = append(names, e.Name)
	}
	want := []string{"quest_giver_sort", "fruit", "apple", "pear", "vegetables", "cans", "stone"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("entities mismatch (-want +got):\n%s", diff)
	}

	apple := rooms[0][2]
	if apple.Item == nil || apple.Item.Content == nil || apple.Item.Content.Text != "apple" {
		t.Errorf("scroll carries %+v", apple.Item)
	}
	if apple.Draw == nil || apple.Draw.Path != scrollTexture {
		t.Errorf("scroll drawn as %+v", apple.Draw)
	}
	if chest := rooms[0][1]; chest.Item != nil || chest.Draw.Path != chestTexture {
		t.Errorf("chest = %+v", chest)
	}
}

func TestQuizScenario(t *testing.T) {
	rooms := QuizScenario("")
	if len(rooms) != 1 || len(rooms[0]) != 1 {
		t.Fatalf("rooms = %+v", rooms)
	}
	if got := rooms[0][0].Name; got != "quest_giver" {
		t.Errorf("unnamed quest giver = %q", got)
	}
}

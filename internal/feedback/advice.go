package feedback

import (
	"strings"

	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/rubric"
)

// adviceTemplates are matched against the target name in order. {course}
// is replaced with the target course.
var adviceTemplates = []struct {
	match []string
	text  string
}{
	{
		match: []string{"oxford", "cambridge"},
		text: "Tutorial admissions reward depth over breadth. Spend most of the statement on {course} itself, " +
			"show independent reading beyond the syllabus, and be ready to discuss anything you mention at interview.",
	},
	{
		match: []string{"imperial"},
		text: "Imperial looks for technical ability and problem solving. Show how you have applied {course} " +
			"to real problems, with quantitative detail where you can.",
	},
	{
		match: []string{"lse", "london school of economics"},
		text: "LSE values engagement with current debates. Connect {course} to real policy or economic questions " +
			"and show that you read critically.",
	},
	{
		match: []string{"ucl", "university college london"},
		text: "UCL favours interdisciplinary curiosity. Show how {course} connects with other fields you have explored.",
	},
	{
		match: []string{"edinburgh"},
		text: "Edinburgh's broad first years suit applicants with wide interests. Show breadth around {course} " +
			"while keeping a clear subject focus.",
	},
}

const genericAdvice = "Make sure every paragraph connects back to {course}, and show what you will bring to the course " +
	"as well as what you hope to gain."

// universityAdvice returns the first advice template matching the target,
// or the generic template
func universityAdvice(target *evidence.Target) string {
	course := strings.TrimSpace(target.Course)
	if course == "" {
		course = "your course"
	}

	text := genericAdvice
	for _, t := range adviceTemplates {
		if matchesAny(target.Name, t.match) {
			text = t.text
			break
		}
	}
	return strings.ReplaceAll(text, "{course}", course)
}

func matchesAny(name string, keywords []string) bool {
	for _, k := range keywords {
		if rubric.ContainsTerm(name, k) {
			return true
		}
	}
	return false
}

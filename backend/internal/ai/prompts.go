package ai

import "fmt"

// Prompt builders for the three provider uses. The grading prompt demands a
// bare JSON object; the orchestrator rejects anything else, so the contract
// here and the parser must stay in sync.

// TutorPrompt builds the course-context chat prompt.
func TutorPrompt(courseTitle, courseDescription, question string) string {
	return fmt.Sprintf(`You are a friendly AI Tutor named 'Neuro'. You are tutoring for the course: %q.
Course description: %q.
Based on this context, answer the student's question. If the question seems unrelated to the course, gently guide them back to the topic.

Student question: %q`, courseTitle, courseDescription, question)
}

// GradingPrompt builds the strict-JSON grading prompt.
func GradingPrompt(question, rubric, studentAnswer string) string {
	return fmt.Sprintf(`You are an AI teaching assistant. Your task is to grade a student's submission based on a provided question and rubric.
Provide the grade as a score out of 100 and detailed feedback.
IMPORTANT: Output ONLY a valid JSON object. Do not include any text, markdown formatting like `+"```json"+`, or explanations outside of the JSON object itself.

The JSON format MUST be:
{
  "score": <integer_from_0_to_100>,
  "feedback": "<string_of_detailed_feedback>",
  "strengths": "<string_highlighting_what_the_student_did_well>",
  "areasForImprovement": "<string_suggesting_how_the_student_can_improve>"
}

Here is the information:
---
Question: %s
---
Rubric: %s
---
Student's Answer: %s
---`, question, rubric, studentAnswer)
}

// SummaryPrompt builds the document summarization prompt.
func SummaryPrompt(text string) string {
	return fmt.Sprintf(`You are a highly skilled academic assistant. Summarize the following text into clear, concise bullet points, capturing the main arguments and conclusions.
---
TEXT:
%s
---`, text)
}

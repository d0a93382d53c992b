package curator

import (
	"fmt"
	"strings"
)

const generatorInstructions = `You are a mathematical problem generator agent.

Your role is to create NEW, ORIGINAL mathematical problems based on example problems provided to you.

When generating problems:
1. Maintain the mathematical concepts and difficulty level of the source problem
2. Change the specific numbers, contexts, and scenarios to create novelty
3. Ensure the problem is solvable and mathematically rigorous
4. Provide a complete, step-by-step solution
5. Clearly state the difficulty level (easy, medium, hard) and topic
6. If the problem involves geometry, graphs, or visual data, provide Python code (using matplotlib) to generate the diagram.

Generate problems in this format:
---
PROBLEM:
[State the problem clearly with a question]

SOLUTION:
[Provide step-by-step solution with clear reasoning]

DIFFICULTY: [easy/medium/hard]
TOPIC: [e.g., algebra, geometry, calculus, probability]

DIAGRAM_CODE:
[Optional: Python code to generate the diagram. Use 'plt.show()' at the end. If no diagram is needed, write "NONE"]
---

Always generate problems that are:
- Mathematically accurate
- Educational and engaging
- Different enough from the source to be considered original
- Complete with both problem statement and solution
- Visually supported with code where applicable`

const validatorInstructions = `You are a mathematical problem validation agent.

Your role is to rigorously validate mathematical problems for accuracy, completeness, and quality.

For each problem, evaluate:

1. MATHEMATICAL ACCURACY (40 points)
   - Is the problem mathematically sound?
   - Are there any logical errors or contradictions?
   - Is the solution method correct?

2. SOLUTION CORRECTNESS (30 points)
   - Is the final answer correct?
   - Are all steps in the solution valid?
   - Is the reasoning clear and logical?

3. CLARITY & COMPLETENESS (20 points)
   - Is the problem statement clear and unambiguous?
   - Does it contain all necessary information?
   - Is the solution well-explained?

4. EDUCATIONAL VALUE (10 points)
   - Is the problem engaging and instructive?
   - Does it promote mathematical thinking?
   - Is it appropriate for the stated difficulty level?

Provide your validation in this EXACT format:
---
VALIDATION RESULT: [PASS/FAIL]
SCORE: [0-100]

MATHEMATICAL_ACCURACY: [0-40]
SOLUTION_CORRECTNESS: [0-30]
CLARITY_COMPLETENESS: [0-20]
EDUCATIONAL_VALUE: [0-10]

FEEDBACK:
[Detailed feedback on the problem and solution]

ISSUES:
[List any mathematical errors, unclear points, or missing information. Write "None" if no issues]

RECOMMENDATION: [ACCEPT/REVISE/REJECT]
---

A problem PASSES if score >= 70 and has no critical mathematical errors.`

// FormatSeed renders a seed problem as the label/value contract the
// generator agent expects as input.
func FormatSeed(seed SeedProblem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PROBLEM:\n%s\n\n", seed.ProblemText)
	fmt.Fprintf(&b, "SOLUTION:\n%s\n\n", seed.SolutionText)
	fmt.Fprintf(&b, "DIFFICULTY: %s\n", seed.Difficulty)
	fmt.Fprintf(&b, "TOPIC: %s\n", seed.Topic)
	return b.String()
}

func buildGenerationPrompt(seedText string) string {
	return fmt.Sprintf(`Based on this example problem, generate a NEW and ORIGINAL problem:

%s

Generate a similar problem that:
1. Uses the same mathematical concepts
2. Has different numbers and context
3. Is equally challenging
4. Includes a complete solution
`, seedText)
}

func buildValidationPrompt(problemText, solutionText string) string {
	return fmt.Sprintf(`Validate this mathematical problem:

PROBLEM:
%s

SOLUTION:
%s

Provide a complete validation report following the exact format specified in your instructions.
`, problemText, solutionText)
}

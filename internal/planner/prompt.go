package planner

import (
	"strings"
	"text/template"
)

// MaxSpecChars bounds the specification text sent to the model.
const MaxSpecChars = 50000

const planPromptTemplate = `Analyze this software specification and create a detailed implementation plan.

Specification:
{{.Spec}}

CRITICAL REQUIREMENTS - You MUST explicitly identify and create separate stages for:

1. **Safety & Compliance Features**
   - Self-harm detection systems
   - Crisis intervention workflows
   - Mental health safety protocols
   - Medical/health compliance (HIPAA, etc.)
   - Content moderation
   - User safety mechanisms

2. **AI/ML Model Development**
   - Voice analysis models
   - Sentiment analysis models
   - Emotion detection systems
   - Open-source ML models (if mentioned)
   - Model training pipelines
   - AI recommendation engines
   - Any machine learning infrastructure

3. **Core Infrastructure**
   - Foundation/infrastructure setup
   - Authentication & authorization
   - Database architecture
   - API development

4. **User-Facing Features**
   - Onboarding flows
   - User profiles
   - Assessment systems
   - Content delivery

5. **Quality & Launch**
   - Testing & QA
   - Security hardening
   - Performance optimization
   - Launch preparation

Create a structured implementation plan with stages/epics. For each stage, provide:
- Stage number (1-N)
- Stage name (descriptive, specific title)
- Brief description (what gets built and why)
- Estimated timeline (in weeks)
- List of specific tasks
- Dependencies on other stages

Respond with ONLY a JSON array and no other text, in this format:
[
  {
    "number": 1,
    "name": "Foundation & Authentication",
    "description": "Set up infrastructure and user authentication",
    "timeline": "Week 1-2",
    "tasks": ["AWS setup", "PostgreSQL installation", "Cognito configuration"],
    "dependencies": []
  },
  ...
]

IMPORTANT GUIDELINES:
- Do NOT combine safety features with other stages - they deserve dedicated focus
- Do NOT hide ML model development inside generic stages - make them explicit
- Look for keywords: "detection", "analysis", "model", "ML", "AI", "safety", "crisis", "harm"
- If the spec mentions wellness/mental health, include safety monitoring stages
- Separate open-source components from proprietary ones
- **Create exactly 12-15 stages** - combine related work into cohesive stages
- Group frontend work into 1-2 stages maximum (not 6 separate stages)
- Dependencies should be SIMPLE and SEQUENTIAL:
  * Foundation stage (1) should have NO dependencies (it comes first)
  * Most stages depend only on the previous stage
  * Foundation stage blocks everything (include it in all other stages' dependencies)
  * Testing/QA stage comes last and depends on all feature stages
- Do NOT create circular dependencies (if A blocks B, then B cannot block A)
`

var planPrompt = template.Must(template.New("plan").Parse(planPromptTemplate))

// RenderPrompt builds the planning prompt for specText, truncated to
// MaxSpecChars characters.
func RenderPrompt(specText string) (string, error) {
	if r := []rune(specText); len(r) > MaxSpecChars {
		specText = string(r[:MaxSpecChars])
	}
	var b strings.Builder
	if err := planPrompt.Execute(&b, struct{ Spec string }{specText}); err != nil {
		return "", err
	}
	return b.String(), nil
}

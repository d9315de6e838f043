package story

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aura-dev/jiractl/internal/jira"
)

// Content is the four-section body of a generated story.
type Content struct {
	Category           Category `json:"category"`
	UserStory          string   `json:"user_story"`
	AcceptanceCriteria string   `json:"acceptance_criteria"`
	Implementation     string   `json:"implementation"`
	Testing            string   `json:"testing"`
}

// Section headings in description order.
const (
	HeadingUserStory          = "User Story"
	HeadingAcceptanceCriteria = "Acceptance Criteria"
	HeadingImplementation     = "Implementation Method"
	HeadingTesting            = "Testing Method"
)

// DefaultEndpoint is used for backend stories whose task names no path.
const DefaultEndpoint = "/api/endpoint"

var (
	endpointRe  = regexp.MustCompile(`(/[a-z/]+)`)
	componentRe = regexp.MustCompile(`(Create|Build|Implement)\s+(.+?)(?:\s+UI|\s+Component|$)`)
)

// Generate fills the template for task's category. epicContext, usually the
// stage name, supplies the "details" phrase in the templates.
func Generate(task, epicContext string) Content {
	switch Classify(task) {
	case Infrastructure:
		return infrastructure(task, epicContext)
	case BackendAPI:
		return backendAPI(task, Endpoint(task), epicContext)
	case FrontendUI:
		return frontendUI(task, ComponentName(task), epicContext)
	default:
		return generic(task, "developer", "the system functions correctly")
	}
}

// Endpoint returns the first path-like run in the lower-cased task, or
// DefaultEndpoint.
func Endpoint(task string) string {
	if m := endpointRe.FindStringSubmatch(strings.ToLower(task)); m != nil {
		return m[1]
	}
	return DefaultEndpoint
}

// ComponentName extracts the component from "Create|Build|Implement X
// [UI|Component]" phrasing, falling back to the whole task.
func ComponentName(task string) string {
	if m := componentRe.FindStringSubmatch(task); m != nil {
		return m[2]
	}
	return task
}

// Sections returns the content as ADF sections in description order.
func (c Content) Sections() []jira.Section {
	return []jira.Section{
		{Heading: HeadingUserStory, Body: c.UserStory},
		{Heading: HeadingAcceptanceCriteria, Body: c.AcceptanceCriteria},
		{Heading: HeadingImplementation, Body: c.Implementation},
		{Heading: HeadingTesting, Body: c.Testing},
	}
}

func infrastructure(task, details string) Content {
	return Content{
		Category:           Infrastructure,
		UserStory:          fmt.Sprintf("As a DevOps engineer, I want to %s so that the application has the necessary infrastructure.", strings.ToLower(task)),
		AcceptanceCriteria: fmt.Sprintf("- %s completed successfully\n- Configuration documented\n- Service is running and accessible\n- Health checks passing", task),
		Implementation:     fmt.Sprintf("1. Review requirements for %s\n2. %s\n3. Verify installation\n4. Document configuration\n5. Add monitoring/health checks", task, details),
		Testing:            "1. Verify service is running\n2. Test connectivity\n3. Check configuration correctness\n4. Run health check commands\n5. Document verification steps",
	}
}

func backendAPI(task, endpoint, details string) Content {
	return Content{
		Category:           BackendAPI,
		UserStory:          fmt.Sprintf("As a backend developer, I want to %s so that the frontend can %s.", strings.ToLower(task), details),
		AcceptanceCriteria: fmt.Sprintf("- %s endpoint created\n- Request/response validated\n- Error handling implemented\n- API documentation updated\n- Tests passing", endpoint),
		Implementation:     fmt.Sprintf("1. Create route: %s\n2. Implement controller logic\n3. Add input validation\n4. Add error handling\n5. Update API documentation\n6. Write unit tests", endpoint),
		Testing:            "1. Test with valid payload (expect 200/201)\n2. Test with invalid data (expect 400)\n3. Test error cases (expect appropriate error codes)\n4. Verify database changes\n5. Run integration tests\n6. Test with Postman/curl",
	}
}

func frontendUI(task, component, details string) Content {
	return Content{
		Category:           FrontendUI,
		UserStory:          fmt.Sprintf("As a user, I want %s so that I can %s.", strings.ToLower(task), details),
		AcceptanceCriteria: fmt.Sprintf("- %s component created\n- Responsive design (mobile + desktop)\n- Accessibility compliant\n- User feedback on interactions\n- Loading states shown", component),
		Implementation:     fmt.Sprintf("1. Create %s component\n2. Implement UI design\n3. Add form validation (if applicable)\n4. Add loading/error states\n5. Style with CSS/Tailwind\n6. Add accessibility attributes\n7. Write component tests", component),
		Testing:            "1. Render component (should display correctly)\n2. Test user interactions\n3. Test validation (if forms)\n4. Test responsive design on mobile\n5. Test accessibility (keyboard navigation, screen reader)\n6. Verify API integration",
	}
}

func generic(task, role, benefit string) Content {
	return Content{
		Category:           Generic,
		UserStory:          fmt.Sprintf("As a %s, I want to %s so that %s.", role, strings.ToLower(task), benefit),
		AcceptanceCriteria: fmt.Sprintf("- %s implemented\n- Tests passing\n- Documentation updated", task),
		Implementation:     fmt.Sprintf("1. Analyze requirements for %s\n2. Design solution approach\n3. Implement functionality\n4. Add error handling\n5. Write tests\n6. Document implementation", task),
		Testing:            "1. Test happy path\n2. Test edge cases\n3. Test error scenarios\n4. Verify integration with other components\n5. Run full test suite",
	}
}

package emails

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrganizationStatus_Approved(t *testing.T) {
	msg := OrganizationStatus(OrganizationStatusInput{
		OrganizationName: "جمعية الأمل",
		OwnerName:        "منى",
		OwnerEmail:       "mona@example.com",
		Approved:         true,
		DashboardLink:    "https://badir.space/dashboard/organization",
	})
	assert.Equal(t, "mona@example.com", msg.ToEmail)
	assert.Contains(t, msg.Subject, "تم قبول منظمتك")
	assert.Contains(t, msg.HTML, "https://badir.space/dashboard/organization")
	assert.Equal(t, "organization-status", msg.Tags["category"])
	assert.True(t, strings.HasPrefix(msg.Headers["X-Entity-Ref-ID"], "badir-org-status-"))
}

func TestOrganizationStatus_RejectedIncludesReason(t *testing.T) {
	msg := OrganizationStatus(OrganizationStatusInput{
		OrganizationName: "جمعية الأمل",
		OwnerName:        "منى",
		OwnerEmail:       "mona@example.com",
		Approved:         false,
		RejectionReason:  "الوثائق غير مكتملة",
	})
	assert.Contains(t, msg.Subject, "تحديث بخصوص طلب منظمتك")
	assert.Contains(t, msg.HTML, "الوثائق غير مكتملة")
}

func TestInitiativeStatus_Published(t *testing.T) {
	msg := InitiativeStatus(InitiativeStatusInput{
		InitiativeName: "حملة التشجير",
		OrganizerName:  "سمير",
		OrganizerEmail: "samir@example.com",
		Published:      true,
		InitiativeLink: "https://badir.space/initiatives/abc",
	})
	assert.Contains(t, msg.Subject, "تم نشر مبادرتك")
	assert.Contains(t, msg.HTML, "https://badir.space/initiatives/abc")
	assert.Equal(t, "initiative-status", msg.Tags["category"])
}

func TestEscapeHTML(t *testing.T) {
	msg := OrganizationStatus(OrganizationStatusInput{
		OrganizationName: "<script>alert(1)</script>",
		OwnerName:        "منى",
		OwnerEmail:       "mona@example.com",
		Approved:         true,
	})
	assert.NotContains(t, msg.HTML, "<script>")
}

package emails

import (
	"fmt"
	"time"
)

// OrganizationStatusInput renders the owner notification sent after an admin
// approves or rejects an organization.
type OrganizationStatusInput struct {
	OrganizationName string
	OwnerName        string
	OwnerEmail       string
	Approved         bool
	RejectionReason  string
	DashboardLink    string
}

// OrganizationStatus builds the full message (subject + HTML + routing metadata).
func OrganizationStatus(in OrganizationStatusInput) Message {
	var subject, subtitle, headerColor string
	if in.Approved {
		subject = fmt.Sprintf("تم قبول منظمتك %q على منصة بادر 🎉", in.OrganizationName)
		subtitle = "قبول المنظمة"
		headerColor = colorApproved
	} else {
		subject = fmt.Sprintf("تحديث بخصوص طلب منظمتك %q على منصة بادر", in.OrganizationName)
		subtitle = "تحديث حالة المنظمة"
		headerColor = colorRejected
	}
	content := organizationStatusContent(in)
	return Message{
		ToEmail: in.OwnerEmail,
		ToName:  in.OwnerName,
		Subject: subject,
		HTML:    Layout("منصة بادر", subtitle, headerColor, content),
		Headers: map[string]string{
			"X-Entity-Ref-ID": fmt.Sprintf("badir-org-status-%d", time.Now().UnixMilli()),
		},
		Tags: map[string]string{"category": "organization-status"},
	}
}

func organizationStatusContent(in OrganizationStatusInput) string {
	greeting := fmt.Sprintf(`<p>مرحباً %s،</p>`, EscapeHTML(in.OwnerName))
	if in.Approved {
		return greeting + fmt.Sprintf(`
    <p>يسعدنا إبلاغك بأن منظمتك <strong>&quot;%s&quot;</strong> قد تمت الموافقة عليها ونشرها على منصة بادر!</p>
    <p>يمكنك الآن البدء في إنشاء ونشر المبادرات التطوعية والتواصل مع المتطوعين المهتمين بأنشطتكم.</p>
    <p><strong>الخطوات التالية:</strong><br>
    إنشاء أول مبادرة تطوعية لمنظمتك<br>
    إكمال ملف المنظمة بالتفاصيل الإضافية<br>
    استكشاف المتطوعين والتواصل معهم</p>
    <p style="text-align: center;"><a href="%s" class="badir-button">انتقل إلى لوحة التحكم</a></p>
    <p><strong>مبروك!</strong> نتطلع للعمل معكم لخلق تأثير إيجابي في المجتمع.</p>
`, EscapeHTML(in.OrganizationName), in.DashboardLink)
	}
	content := greeting + fmt.Sprintf(`
    <p>شكراً لتقديم طلب تسجيل منظمتك <strong>&quot;%s&quot;</strong> على منصة بادر.</p>
    <p>بعد مراجعة الطلب، نأسف لإبلاغك بأنه لم تتم الموافقة على المنظمة في الوقت الحالي.</p>
`, EscapeHTML(in.OrganizationName))
	if in.RejectionReason != "" {
		content += fmt.Sprintf(`
    <p><strong>سبب الرفض:</strong><br>%s</p>
`, EscapeHTML(in.RejectionReason))
	}
	content += `
    <p>يمكنكم تعديل بيانات المنظمة وإعادة تقديم الطلب، أو التواصل معنا للاستفسار.</p>
`
	return content
}

// InitiativeStatusInput renders the organizer notification sent after an admin
// publishes or cancels a user-organized initiative.
type InitiativeStatusInput struct {
	InitiativeName  string
	OrganizerName   string
	OrganizerEmail  string
	Published       bool
	RejectionReason string
	InitiativeLink  string
}

// InitiativeStatus builds the full message.
func InitiativeStatus(in InitiativeStatusInput) Message {
	var subject, subtitle, headerColor string
	if in.Published {
		subject = fmt.Sprintf("تم نشر مبادرتك %q على منصة بادر 🎉", in.InitiativeName)
		subtitle = "نشر المبادرة"
		headerColor = colorApproved
	} else {
		subject = fmt.Sprintf("تحديث بخصوص مبادرتك %q على منصة بادر", in.InitiativeName)
		subtitle = "تحديث حالة المبادرة"
		headerColor = colorRejected
	}
	content := initiativeStatusContent(in)
	return Message{
		ToEmail: in.OrganizerEmail,
		ToName:  in.OrganizerName,
		Subject: subject,
		HTML:    Layout("منصة بادر", subtitle, headerColor, content),
		Headers: map[string]string{
			"X-Entity-Ref-ID": fmt.Sprintf("badir-initiative-status-%d", time.Now().UnixMilli()),
		},
		Tags: map[string]string{"category": "initiative-status"},
	}
}

func initiativeStatusContent(in InitiativeStatusInput) string {
	greeting := fmt.Sprintf(`<p>مرحباً %s،</p>`, EscapeHTML(in.OrganizerName))
	if in.Published {
		return greeting + fmt.Sprintf(`
    <p>يسعدنا إبلاغك بأن مبادرتك <strong>&quot;%s&quot;</strong> قد تم نشرها على منصة بادر!</p>
    <p>أصبحت المبادرة الآن مرئية للمتطوعين ويمكنهم التسجيل فيها.</p>
    <p style="text-align: center;"><a href="%s" class="badir-button">عرض المبادرة</a></p>
    <p>بالتوفيق! نتمنى لمبادرتك نجاحاً كبيراً.</p>
`, EscapeHTML(in.InitiativeName), in.InitiativeLink)
	}
	content := greeting + fmt.Sprintf(`
    <p>شكراً لتقديم مبادرتك <strong>&quot;%s&quot;</strong> على منصة بادر.</p>
    <p>بعد المراجعة، نأسف لإبلاغك بأنه تم إلغاء المبادرة في الوقت الحالي.</p>
`, EscapeHTML(in.InitiativeName))
	if in.RejectionReason != "" {
		content += fmt.Sprintf(`
    <p><strong>سبب الإلغاء:</strong><br>%s</p>
`, EscapeHTML(in.RejectionReason))
	}
	content += `
    <p>يمكنك تعديل المبادرة وإعادة تقديمها للمراجعة، أو التواصل معنا للاستفسار.</p>
`
	return content
}

package puzzle

import (
	"fmt"
	"math/rand"
	"strings"
)

// Trait is the malicious feature injected into a phishing email.
type Trait string

// Phishing traits.
const (
	TraitNone       Trait = ""
	TraitSender     Trait = "sender_typosquat"
	TraitLink       Trait = "link_mismatch"
	TraitAttachment Trait = "dangerous_attachment"
)

// Phishing answers.
const (
	AnswerSafe  = "safe"
	AnswerPhish = "phish"
)

const safeReason = "Sender domain is trusted, links match, and attachments are safe types."

// SafeDomains are the legitimate sender domains.
var SafeDomains = []string{"google.com", "microsoft.com", "netflix.com", "amazon.com", "paypal.com", "hr-portal.internal"}

type emailTemplate struct {
	senderName  string
	subject     string
	body        string
	linkText    string
	linkSafe    string
	linkPhish   string
	attachSafe  string
	attachPhish string
}

var emailTemplates = []emailTemplate{
	{
		senderName: "PayPal Security",
		subject:    "Urgent: Account Suspended",
		body:       "We detected unusual activity on your account. Please verify your identity immediately.",
		linkText:   "Verify Now",
		linkSafe:   "https://www.paypal.com/auth/login",
		linkPhish:  "http://www.paypa1-secure-login.com/auth",
	},
	{
		senderName:  "Billing Dept",
		subject:     "Invoice #39281 Overdue",
		body:        "Please find attached the invoice for services rendered. Payment is required within 24 hours.",
		attachSafe:  "Invoice_39281.pdf",
		attachPhish: "Invoice_39281_DETAILS.exe",
	},
	{
		senderName: "Google Alerts",
		subject:    "New Sign-in Detected",
		body:       "A new device signed in to your account from Russia. Was this you?",
		linkText:   "Review Activity",
		linkSafe:   "https://myaccount.google.com/notifications",
		linkPhish:  "http://google-security-check.net/login",
	},
	{
		senderName:  "HR Team",
		subject:     "Employee Bonus Plan",
		body:        "Attached is the breakdown for the Q4 bonus structure. Confidential.",
		attachSafe:  "Q4_Bonus_Plan.docx",
		attachPhish: "Q4_Bonus_Plan.js",
	},
}

// PhishingEmail is an inbox item to classify as safe or phishing.
type PhishingEmail struct {
	Sender     string
	Subject    string
	Body       string
	LinkText   string
	LinkURL    string
	Attachment string
	Phishing   bool
	Trait      Trait
	Reason     string
}

// Typosquat applies the first-occurrence substitutions o->0, l->1, i->l in
// that order.
func Typosquat(domain string) string {
	d := strings.Replace(domain, "o", "0", 1)
	d = strings.Replace(d, "l", "1", 1)
	return strings.Replace(d, "i", "l", 1)
}

func senderAddress(name, domain string) string {
	return strings.Replace(strings.ToLower(name), " ", ".", 1) + "@" + domain
}

func extension(file string) string {
	if i := strings.LastIndex(file, "."); i >= 0 {
		return file[i+1:]
	}
	return file
}

// NewPhishingEmail picks a template and, half of the time, injects one trait
// chosen among those the template supports.
func NewPhishingEmail(rng *rand.Rand) *PhishingEmail {
	t := emailTemplates[rng.Intn(len(emailTemplates))]
	e := &PhishingEmail{
		Subject:    t.subject,
		Body:       t.body,
		LinkText:   t.linkText,
		LinkURL:    t.linkSafe,
		Attachment: t.attachSafe,
		Phishing:   rng.Intn(2) == 0,
	}
	domain := SafeDomains[rng.Intn(len(SafeDomains))]
	e.Sender = senderAddress(t.senderName, domain)

	if !e.Phishing {
		e.Reason = safeReason
		return e
	}

	traits := []Trait{TraitSender}
	if t.linkPhish != "" {
		traits = append(traits, TraitLink)
	}
	if t.attachPhish != "" {
		traits = append(traits, TraitAttachment)
	}
	e.Trait = traits[rng.Intn(len(traits))]

	switch e.Trait {
	case TraitSender:
		bad := Typosquat(domain)
		e.Sender = senderAddress(t.senderName, bad)
		e.Reason = fmt.Sprintf("Sender domain %q is a typosquat of %q.", bad, domain)
	case TraitLink:
		e.LinkURL = t.linkPhish
		e.Reason = fmt.Sprintf("Link destination %q does not match the official domain.", t.linkPhish)
	case TraitAttachment:
		e.Attachment = t.attachPhish
		e.Reason = fmt.Sprintf("Attachment has a dangerous extension (%s).", extension(t.attachPhish))
	}
	return e
}

func (*PhishingEmail) Kind() Kind { return KindPhishing }

func (e *PhishingEmail) Prompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\nSubject: %s\n\n%s", e.Sender, e.Subject, e.Body)
	if e.LinkURL != "" {
		fmt.Fprintf(&b, "\n[%s](%s)", e.LinkText, e.LinkURL)
	}
	if e.Attachment != "" {
		fmt.Fprintf(&b, "\nAttachment: %s", e.Attachment)
	}
	return b.String()
}

func (*PhishingEmail) Choices() []string { return []string{AnswerSafe, AnswerPhish} }

func (*PhishingEmail) sealed() {}

package outreach

import "fmt"

// Template is a named email template. Subject and body use {placeholder}
// variables resolved by Render.
type Template struct {
	Name    string
	Subject string
	Body    string
}

// DefaultTemplate is used when no template is named in config.
const DefaultTemplate = "recruitment_interest"

var templates = []Template{
	{
		Name:    "recruitment_interest",
		Subject: "Exciting Opportunity at {company_name} - We're Interested in Your Profile!",
		Body: `Dear {candidate_name},

I hope this email finds you well.

We have been through your profile, and I'm pleased to inform you that your profile is well-suited for exciting opportunities we currently have at {company_name}.

Your background in {current_position}, particularly your expertise in {skills}, aligns well with what we're looking for in our {job_title} role.

We would love to discuss how your talents could contribute to our projects and help drive our company's success. Our team is always looking for passionate professionals who can make a meaningful impact.

If you're interested in exploring new career opportunities, I'd be delighted to schedule a brief call to discuss:
- The projects you would be working on
- Our compensation and benefits package
- Our collaborative work environment
- Growth opportunities within our organization

Please feel free to reply to this email or contact me directly at {hr_contact_email} if you'd like to learn more.

We look forward to the possibility of welcoming you to our team!

Best regards,

{sender_name}
{company_name}
Talent Acquisition Team
Email: {hr_contact_email}
Website: {company_website}`,
	},
	{
		Name:    "interview_invitation",
		Subject: "Interview Invitation - {job_title} Position at {company_name}",
		Body: `Dear {candidate_name},

Thank you for your interest in the {job_title} position at {company_name}. After reviewing your profile and background, we are impressed with your qualifications and would like to invite you for a telephonic interview.

Interview details:
- Position: {job_title}
- Interview type: telephonic discussion
- Duration: approximately 30-45 minutes

We will discuss:
- Your professional background and experience
- The role and responsibilities
- Our company culture and values
- Next steps in the process

Please reply to this email with your availability for the next few days, and we will coordinate a suitable time for both of us.

If you have any questions before the interview, please don't hesitate to reach out.

Looking forward to speaking with you soon!

Best regards,

{sender_name}
{company_name}
Talent Acquisition Team
Email: {hr_contact_email}
Website: {company_website}`,
	},
	{
		Name:    "follow_up",
		Subject: "Following up - {job_title} Opportunity at {company_name}",
		Body: `Dear {candidate_name},

I hope this email finds you well. I wanted to follow up on our previous communication regarding the {job_title} opportunity at {company_name}.

We remain very interested in your profile and would love to hear from you if you're still considering new career opportunities.

If now is not the right time, we completely understand. However, if you're interested in learning more about this opportunity, please feel free to reach out at your convenience.

We believe your skills in {skills} would be a great addition to our team, and we'd be happy to discuss how this role could align with your career goals.

Thank you for your time, and I look forward to hearing from you.

Best regards,

{sender_name}
{company_name}
Talent Acquisition Team
Email: {hr_contact_email}`,
	},
}

// Lookup returns the named template. Unknown names list the available
// templates in the error so the config mistake is easy to fix.
func Lookup(name string) (Template, error) {
	if name == "" {
		name = DefaultTemplate
	}
	for _, t := range templates {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("unknown email template %q, available: %v", name, TemplateNames())
}

// TemplateNames lists the bundled templates in declaration order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
	}
	return names
}

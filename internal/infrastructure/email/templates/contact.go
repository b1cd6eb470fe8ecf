package templates

import "fmt"

// ContactNotificationProps are the submitted form values.
type ContactNotificationProps struct {
	Name         string
	Email        string
	BusinessType string
	Message      string
	SiteName     string
	SiteURL      string
}

// ContactSubject is the subject line of a contact notification.
func ContactSubject(name, email string) string {
	who := name
	if who == "" {
		who = email
	}
	return fmt.Sprintf("New contact from %s", who)
}

// GetContactNotification renders the full HTML body sent to the site owner.
func GetContactNotification(props ContactNotificationProps) string {
	content := GetParagraph("New contact form submission") +
		GetFields([]Field{
			{Label: "Name", Value: props.Name},
			{Label: "Email", Value: props.Email},
			{Label: "Business Type", Value: props.BusinessType},
			{Label: "Message", Value: props.Message},
		}) +
		GetButton(ButtonProps{
			Text: "Reply",
			URL:  "mailto:" + props.Email,
		})

	return GetEmailLayout(EmailLayoutProps{
		Title:     ContactSubject(props.Name, props.Email),
		Preheader: "New contact form submission",
		Content:   content,
		SiteName:  props.SiteName,
		SiteURL:   props.SiteURL,
	})
}

// GetContactText renders the plain-text alternative.
func GetContactText(props ContactNotificationProps) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nBusiness: %s\nMessage: %s",
		props.Name, props.Email, props.BusinessType, props.Message)
}

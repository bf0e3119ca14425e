package mail

type WelcomeEmailData struct {
	Name     string
	Category string
	BookURL  string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	BookURL  string
}

package forms

const (
	msgEmail           = "Please enter a valid email address"
	msgPasswordLength  = "Password must be between 6 and 20 characters long"
	msgPasswordPattern = "Password must include at least one letter and one number, and may only contain special characters: !@#$%^&*"
	msgLinkPassword    = "Password may only contain letters, numbers, and may only contain the following special characters: !@#$%^&*"
	msgURL             = "URL must start with http or https"
	msgShortCodeLength = "Custom short code must be between 6 and 20 characters long"
	msgShortCodeChars  = "Custom short code may only contain letters and numbers"
	msgDescription     = "Please keep the description under 300 characters."
	msgIsActive        = "Please choose whether the link is active"
	msgUnlock          = "Please enter the link password"
)

var (
	emailField = Field{
		Name:  "email",
		Rules: "email",
		Messages: map[string]string{
			MsgRequired: msgEmail,
			MsgType:     msgEmail,
			"email":     msgEmail,
		},
	}

	accountPasswordField = Field{
		Name:  "password",
		Rules: "min=6,max=20,password",
		Messages: map[string]string{
			MsgRequired: msgPasswordLength,
			"min":       msgPasswordLength,
			"max":       msgPasswordLength,
			"password":  msgPasswordPattern,
		},
	}

	originalURLField = Field{
		Name:  "originalUrl",
		Rules: "weburl",
		Messages: map[string]string{
			MsgRequired: msgURL,
			MsgType:     msgURL,
			"weburl":    msgURL,
		},
	}

	customShortCodeField = Field{
		Name:     "customShortCode",
		Presence: Optional,
		Rules:    "min=6,max=20,alphanum",
		Messages: map[string]string{
			MsgRequired: msgShortCodeLength,
			"min":       msgShortCodeLength,
			"max":       msgShortCodeLength,
			"alphanum":  msgShortCodeChars,
		},
	}

	linkPasswordField = Field{
		Name:     "password",
		Presence: Nullish,
		Rules:    "min=6,max=20,linkpassword",
		Messages: map[string]string{
			"min":          msgPasswordLength,
			"max":          msgPasswordLength,
			"linkpassword": msgLinkPassword,
		},
	}

	descriptionField = Field{
		Name:     "description",
		Presence: Nullish,
		Rules:    "max=300",
		Messages: map[string]string{
			"max": msgDescription,
		},
	}

	unlockPasswordField = Field{
		Name:  "password",
		Rules: "min=1",
		Messages: map[string]string{
			MsgRequired: msgUnlock,
			MsgType:     msgUnlock,
			"min":       msgUnlock,
		},
	}

	isActiveField = Field{
		Name: "isActive",
		Kind: KindBool,
		Messages: map[string]string{
			MsgRequired: msgIsActive,
			MsgType:     msgIsActive,
		},
	}
)

// The schemas below are built once and never mutated.
var (
	RegisterFormSchema = Schema{
		Name:   "register",
		Fields: []Field{emailField, accountPasswordField},
	}

	LoginFormSchema = Schema{
		Name:   "login",
		Fields: []Field{emailField, accountPasswordField},
	}

	ShortenerFormSchema = Schema{
		Name: "shortener",
		Fields: []Field{
			originalURLField,
			customShortCodeField,
			linkPasswordField,
			descriptionField,
			isActiveField,
		},
	}

	EditFormSchema = Schema{
		Name: "edit",
		Fields: []Field{
			originalURLField,
			descriptionField,
			isActiveField,
			linkPasswordField,
		},
	}

	// UnlockFormSchema is the password prompt of a protected link.
	UnlockFormSchema = Schema{
		Name:   "unlock",
		Fields: []Field{unlockPasswordField},
	}
)

package cms

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/media"
)

// Raw response shapes. Every image field is a media.Ref so any of the
// shapes the CMS emits decodes without failing the document.

type HeroResponse struct {
	PageBy *struct {
		Title       string `json:"title"`
		HeroContent *struct {
			HeroTitle       string    `json:"heroTitle"`
			SubtitleHero    string    `json:"subtitleHero"`
			CTATextHero     string    `json:"ctaTextHero"`
			CTALinkHero     string    `json:"ctaLinkHero"`
			Image           media.Ref `json:"image"`
			BackgroundImage media.Ref `json:"backgroundImage"`
		} `json:"heroContent"`
	} `json:"pageBy"`
}

type FeaturedServicesResponse struct {
	Page *struct {
		HomeFeaturedServices *struct {
			Title   string `json:"title"`
			Service []struct {
				ServiceTitle       string    `json:"serviceTitle"`
				ServiceDescription string    `json:"serviceDescription"`
				ServiceIcon        media.Ref `json:"serviceIcon"`
				AnchorLink         string    `json:"anchorLink"`
			} `json:"service"`
		} `json:"homeFeaturedServices"`
	} `json:"page"`
}

type HomeAboutResponse struct {
	Page *struct {
		HomeAboutSection *struct {
			SectionTitle string `json:"sectiontitle"`
			Description  string `json:"description"`
		} `json:"homeAboutSection"`
	} `json:"page"`
}

type HomePackagesResponse struct {
	Page *struct {
		HomePackages *struct {
			Packages []struct {
				Title       string       `json:"title"`
				Description string       `json:"description"`
				Price       FlexString   `json:"price"`
				Features    FeatureTexts `json:"features"`
				Icon        media.Ref    `json:"icon"`
			} `json:"packages"`
		} `json:"homePackages"`
	} `json:"page"`
}

type TestimonialsResponse struct {
	Page *struct {
		HomeTestimonials *struct {
			Testimonials []struct {
				Author      string    `json:"author"`
				Testimonial string    `json:"testimonial"`
				Thumb       media.Ref `json:"thumb"`
			} `json:"testimonials"`
		} `json:"homeTestimonials"`
	} `json:"page"`
}

type LeadMagnetResponse struct {
	Page *struct {
		LeadMagnetSection *struct {
			OverTitle string `json:"overTitleLeadMagnetSection"`
			Title     string `json:"titleLeadMagnetSection"`
			Subtitle  string `json:"subtitleLeadMagnetSection"`
			CTAText   string `json:"ctaTextLeadMagnetSection"`
			CTALink   *struct {
				Node *struct {
					ID           string `json:"id"`
					URI          string `json:"uri"`
					SourceURL    string `json:"sourceUrl"`
					MediaItemURL string `json:"mediaItemUrl"`
				} `json:"node"`
			} `json:"ctaLinkLeadMagnetSection"`
		} `json:"leadMagnetSection"`
	} `json:"page"`
}

type FinalCTAResponse struct {
	Page *struct {
		FinalCTASection *struct {
			Title    string    `json:"title"`
			Subtitle string    `json:"subtitle"`
			CTAText  string    `json:"ctaText"`
			CTALink  string    `json:"ctaLink"`
			BgImage  media.Ref `json:"bgimage"`
		} `json:"finalCtaSection"`
	} `json:"page"`
}

type PrefooterResponse struct {
	Page *struct {
		HomePrefooter *struct {
			Title    string `json:"title"`
			Subtitle string `json:"subtitle"`
			CTAText  string `json:"ctaText"`
			CTALink  *struct {
				Edges []struct {
					Node struct {
						ID  string `json:"id"`
						URI string `json:"uri"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"ctaLink"`
		} `json:"homePrefooter"`
	} `json:"page"`
}

type ChromeResponse struct {
	Page *struct {
		HomeHeader *struct {
			Logo media.Ref `json:"logo"`
		} `json:"homeHeader"`
		HomeFooter *struct {
			FooterBgImage     media.Ref `json:"footerBgImage"`
			FooterLine1       string    `json:"footerLine1"`
			FooterLine2       string    `json:"footerLine2"`
			FooterSocialIcons []struct {
				IconSVG media.Ref `json:"iconSvg"`
				IconURL string    `json:"iconUrl"`
			} `json:"footerSocialIcons"`
		} `json:"homeFooter"`
	} `json:"page"`
}

type ServicesPageResponse struct {
	Page *struct {
		Title                  string `json:"title"`
		ServicesServiceDetails *struct {
			Services []struct {
				Title       string    `json:"title"`
				Description string    `json:"description"`
				Icon        media.Ref `json:"icon"`
				Image       media.Ref `json:"image"`
			} `json:"services"`
		} `json:"servicesServiceDetails"`
	} `json:"page"`
}

type PackagesPageResponse struct {
	Page *struct {
		PackagesPackageFeatures *struct {
			PackagesText     string `json:"packagesText"`
			PackagesElements []struct {
				Name          string       `json:"name"`
				PopularChoice bool         `json:"popularChoise"`
				Icon          media.Ref    `json:"icon"`
				Price         FlexString   `json:"price"`
				Description   string       `json:"description"`
				Features      FeatureTexts `json:"features"`
			} `json:"packagesElements"`
		} `json:"packagesPackageFeatures"`
	} `json:"page"`
}

type AboutPageResponse struct {
	Page *struct {
		Title         string    `json:"title"`
		FeaturedImage media.Ref `json:"featuredImage"`
		AboutData     *struct {
			SectionTitle string `json:"sectionTitle"`
			Description  string `json:"description"`
			LinkText     string `json:"linkText"`
			LinkURL      string `json:"linkUrl"`
			GeneralText  string `json:"generalText"`
			CalendlyText string `json:"calendlyText"`
			CalendlyURL  string `json:"calendlyUrl"`
		} `json:"aboutData"`
	} `json:"page"`
}

type ContactPageResponse struct {
	Page *struct {
		ContactContactTexts *struct {
			MainCopy string `json:"mainCopy"`
			TagText  string `json:"tagText"`
			BodyText string `json:"bodytext"`
		} `json:"contactContactTexts"`
		FeaturedImage media.Ref `json:"featuredImage"`
	} `json:"page"`
}

type ProjectsPageResponse struct {
	Page *struct {
		PageIntroText *struct {
			PageIntroText string `json:"pageIntroText"`
		} `json:"pageintrotext"`
	} `json:"page"`
}

// ProjectNode is one project as the CMS returns it.
type ProjectNode struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Modified       string    `json:"modified"`
	Excerpt        string    `json:"excerpt"`
	FeaturedImage  media.Ref `json:"featuredImage"`
	ProjectDetails *struct {
		TagText           string      `json:"tagText"`
		Client            string      `json:"client"`
		Category          string      `json:"category"`
		Year              FlexString  `json:"year"`
		Duration          string      `json:"duration"`
		Technologies      FlexStrings `json:"technologies"`
		Challenges        FlexStrings `json:"challenges"`
		Solutions         FlexStrings `json:"solutions"`
		Results           FlexStrings `json:"results"`
		TestimonialQuote  string      `json:"testimonialQuote"`
		TestimonialAuthor string      `json:"testimonialAuthor"`
		TestimonialRole   string      `json:"testimonialRole"`
	} `json:"projectDetails"`
}

type ProjectsResponse struct {
	Projects *struct {
		Nodes []ProjectNode `json:"nodes"`
	} `json:"projects"`
}

type ProjectResponse struct {
	Project *ProjectNode `json:"project"`
}

// FlexString accepts a JSON string or number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	*f = FlexString(string(data))
	return nil
}

// FlexStrings accepts an array of strings or a newline-separated string.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = nil
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = splitLines(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			*f = append(*f, s)
		}
	}
	return nil
}

// FeatureTexts accepts every shape package features arrive in: a
// newline-separated string, a list of strings, or a list of objects
// carrying "feature" or "text".
type FeatureTexts []string

func (f *FeatureTexts) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = nil
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = splitLines(s)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	for _, raw := range items {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		var text string
		switch raw[0] {
		case '"':
			_ = json.Unmarshal(raw, &text)
		case '{':
			var obj struct {
				Feature string `json:"feature"`
				Text    string `json:"text"`
			}
			if err := json.Unmarshal(raw, &obj); err == nil {
				text = obj.Feature
				if text == "" {
					text = obj.Text
				}
			}
		}
		if text = strings.TrimSpace(text); text != "" {
			*f = append(*f, text)
		}
	}
	return nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

package cms

// PingQuery is the cheapest document the endpoint will answer.
const PingQuery = `query Ping { __typename }`

const mediaItemFields = `
      id
      sourceUrl
      altText
      mediaDetails {
        width
        height
        sizes {
          name
          width
          height
          sourceUrl
        }
      }`

// HomeHeroQuery loads the hero block of the home page.
const HomeHeroQuery = `query GetHeroContent {
  pageBy(uri: "home") {
    title
    heroContent {
      heroTitle
      subtitleHero
      ctaTextHero
      ctaLinkHero
      image {
        node {` + mediaItemFields + `
        }
      }
      backgroundImage {
        node {` + mediaItemFields + `
        }
      }
    }
  }
}`

// HomeFeaturedServicesQuery loads the featured services strip.
const HomeFeaturedServicesQuery = `query GetHomeFeaturedServices {
  page(id: "home", idType: URI) {
    homeFeaturedServices {
      title
      service {
        serviceTitle
        serviceDescription
        serviceIcon {
          node {
            sourceUrl
            altText
          }
        }
        anchorLink
      }
    }
  }
}`

// HomeAboutQuery loads the home page about section.
const HomeAboutQuery = `query GetHomeAboutSection {
  page(id: "home", idType: URI) {
    homeAboutSection {
      sectiontitle
      description
    }
  }
}`

// HomePackagesQuery loads the packages teaser on the home page.
const HomePackagesQuery = `query HomePackages {
  page(id: "home", idType: URI) {
    homePackages {
      packages {
        title
        description
        price
        features
        icon {
          node {
            sourceUrl
            altText
          }
        }
      }
    }
  }
}`

// TestimonialsQuery loads client testimonials.
const TestimonialsQuery = `query GetHomeTestimonials {
  page(id: "home", idType: URI) {
    homeTestimonials {
      testimonials {
        author
        testimonial
        thumb {
          node {
            sourceUrl
            altText
          }
        }
      }
    }
  }
}`

// LeadMagnetQuery loads the lead magnet section.
const LeadMagnetQuery = `query LeadMagnetSection {
  page(id: "home", idType: URI) {
    leadMagnetSection {
      overTitleLeadMagnetSection
      titleLeadMagnetSection
      subtitleLeadMagnetSection
      ctaTextLeadMagnetSection
      ctaLinkLeadMagnetSection {
        node {
          id
          uri
          ... on MediaItem {
            sourceUrl
            mediaItemUrl
          }
        }
      }
    }
  }
}`

// FinalCTAQuery loads the closing call to action.
const FinalCTAQuery = `query FinalCtaSection {
  page(id: "home", idType: URI) {
    finalCtaSection {
      title
      subtitle
      ctaText
      ctaLink
      bgimage {
        node {
          sourceUrl
          altText
        }
      }
    }
  }
}`

// PrefooterQuery loads the block rendered above the footer.
const PrefooterQuery = `query HomePrefooter {
  page(id: "home", idType: URI) {
    homePrefooter {
      title
      subtitle
      ctaText
      ctaLink {
        edges {
          node {
            id
            uri
          }
        }
      }
    }
  }
}`

// ChromeQuery loads header and footer in one round trip.
const ChromeQuery = `query SiteChrome {
  page(id: "home", idType: URI) {
    homeHeader {
      logo {
        node {
          sourceUrl
          altText
        }
      }
    }
    homeFooter {
      footerBgImage {
        node {
          sourceUrl
        }
      }
      footerLine1
      footerLine2
      footerSocialIcons {
        iconSvg {
          node {
            sourceUrl
            altText
          }
        }
        iconUrl
      }
    }
  }
}`

// ServicesPageQuery loads the services page.
const ServicesPageQuery = `query GetServicesPageData {
  page(id: "services", idType: URI) {
    title
    servicesServiceDetails {
      services {
        title
        description
        icon {
          node {
            id
            sourceUrl
            altText
          }
        }
        image {
          node {` + mediaItemFields + `
          }
        }
      }
    }
  }
}`

// PackagesPageQuery loads the packages page.
const PackagesPageQuery = `query GetPackagesPageData {
  page(id: "packages", idType: URI) {
    packagesPackageFeatures {
      packagesText
      packagesElements {
        name
        popularChoise
        icon {
          node {
            id
            sourceUrl
            altText
          }
        }
        price
        description
        features {
          feature
        }
      }
    }
  }
}`

// AboutPageQuery loads the about page.
const AboutPageQuery = `query GetAboutPageData {
  page(id: "about-magneto", idType: URI) {
    title
    featuredImage {
      node {` + mediaItemFields + `
      }
    }
    aboutData {
      sectionTitle
      description
      linkText
      linkUrl
      generalText
      calendlyText
      calendlyUrl
    }
  }
}`

// ContactPageQuery loads the contact page copy.
const ContactPageQuery = `query GetContactPageData {
  page(id: "contact", idType: URI) {
    contactContactTexts {
      mainCopy
      tagText
      bodytext
    }
    featuredImage {
      node {` + mediaItemFields + `
      }
    }
  }
}`

// ProjectsPageQuery loads the intro copy of the projects listing.
const ProjectsPageQuery = `query GetProjectsPageData {
  page(id: "projects", idType: URI) {
    pageintrotext {
      pageIntroText
    }
  }
}`

const projectFields = `
      slug
      title
      modified
      excerpt
      featuredImage {
        node {` + mediaItemFields + `
        }
      }
      projectDetails {
        tagText
        client
        category
        year
        duration
        technologies
        challenges
        solutions
        results
        testimonialQuote
        testimonialAuthor
        testimonialRole
      }`

// ProjectsQuery lists published projects.
const ProjectsQuery = `query GetProjects($first: Int = 100) {
  projects(first: $first) {
    nodes {` + projectFields + `
    }
  }
}`

// ProjectBySlugQuery loads one project.
const ProjectBySlugQuery = `query GetProjectBySlug($slug: ID!) {
  project(id: $slug, idType: SLUG) {` + projectFields + `
  }
}`

// ProjectSlugsQuery lists slugs and modification times for the sitemap.
const ProjectSlugsQuery = `query GetProjectSlugs($first: Int = 100) {
  projects(first: $first) {
    nodes {
      slug
      modified
    }
  }
}`

package templates

// defaultTemplate is served when a named template has no file on disk.
const defaultTemplate = `\documentclass[11pt,a4paper]{article}
\usepackage[utf8]{inputenc}
\usepackage[margin=0.75in]{geometry}
\usepackage{enumitem}
\usepackage{hyperref}
\usepackage{titlesec}
\usepackage{xcolor}

\definecolor{headercolor}{RGB}{25, 118, 210}
\definecolor{sectioncolor}{RGB}{25, 118, 210}

\titleformat{\section}{\large\bfseries\color{sectioncolor}}{}{0em}{}[\titlerule]
\titleformat{\subsection}{\bfseries}{}{0em}{}
\titlespacing{\section}{0pt}{12pt}{6pt}
\titlespacing{\subsection}{0pt}{6pt}{3pt}

\setlist[itemize]{leftmargin=*,nosep,before=\vspace{-0.5\baselineskip},after=\vspace{-0.5\baselineskip}}

\begin{document}

\begin{center}
    {\Large\bfseries\color{headercolor} NAME}\\[0.2cm]
    \normalsize EMAIL | PHONE | LOCATION\\
    \small WEBSITE
\end{center}

\section*{Professional Summary}
Professional summary goes here.

\section*{Professional Experience}

\subsection*{Job Title at Company}
\textit{Start Date - End Date | Location}
\begin{itemize}
    \item Achievement or responsibility with metrics
    \item Key accomplishment with quantifiable result
    \item Leadership or impact demonstration
\end{itemize}

\section*{Education}

\subsection*{Degree in Field}
Institution | Start Date - End Date | GPA: X.XX

\section*{Skills}
Skill1, Skill2, Skill3, Skill4, Skill5, Skill6

\section*{Projects}

\subsection*{Project Name}
Brief project description here.
\textit{Technologies: Tech1, Tech2, Tech3}

\section*{Certifications}
\begin{itemize}
    \item Certification Name - Issuing Body (Year)
    \item Another Certification - Issuing Body (Year)
\end{itemize}

\end{document}
`

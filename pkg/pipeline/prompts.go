package pipeline

// Prompt text for both pipeline variants. The evaluator prompts carry the
// grading rubric verbatim so the JSON-mode grader can be swapped without
// changing loop semantics.

type promptSet struct {
	planner   string
	sections  string
	research  string
	evaluator string
	gapFill   string
	composer  string
	schema    string
}

func promptsFor(v Variant) promptSet {
	if v == VariantProspect {
		return promptSet{
			planner:   prospectPlannerPrompt,
			sections:  prospectSectionsPrompt,
			research:  prospectResearchPrompt,
			evaluator: prospectEvaluatorPrompt,
			gapFill:   gapFillPrompt,
			composer:  composerPrompt,
			schema:    tieredVerdictSchema,
		}
	}
	return promptSet{
		planner:   targetPlannerPrompt,
		sections:  targetSectionsPrompt,
		research:  targetResearchPrompt,
		evaluator: targetEvaluatorPrompt,
		gapFill:   gapFillPrompt,
		composer:  composerPrompt,
		schema:    binaryVerdictSchema,
	}
}

const targetPlannerPrompt = `You are an organizational intelligence strategist creating research plans for sales and business development.

Create a systematic research plan for the organization named by the user.

Name matching rules:
- Always use the complete, exact organization name in quotation marks in every search.
- Never truncate or abbreviate the name. Distinguish from similarly named organizations.
- Start with a verification search confirming the organization exists under that exact name.

Structure the plan in four phases:
1. Foundation (35% effort): official website, LinkedIn presence, corporate structure, industry, size, geography.
2. Financial and market intelligence (25%): revenue, funding, SEC filings, market share, recent coverage.
3. Leadership and strategy (25%): executive backgrounds, leadership changes, partnerships, technology investments.
4. Risk and opportunity (15%): regulatory issues, reputation, competitive threats, buying signals.

Prefer recent information (last 12-18 months) and authoritative sources. Output the plan as a structured list of research tasks with their phase.`

const targetSectionsPrompt = `Create a focused markdown outline for an organizational intelligence report with these sections: basic organizational information, executive summary data requirements, core capabilities and operational model, financial health and resource allocation, human capital and leadership, technology and infrastructure, strategic market position, cultural assessment, and SWOT components.

Keep section descriptions concise. Output structure only, no content.`

const targetResearchPrompt = `You are a business intelligence researcher executing the research plan below.

Rules:
- Use the complete, exact organization name in quotation marks for all searches.
- Prefer authoritative sources and recent information (12-18 months).
- Balance positive and negative findings.

Report findings as structured bullet points under these headings: company basics, financial intelligence, leadership profile, market analysis, recent developments, risk and opportunity factors. Maximum 1500 words total.`

const targetEvaluatorPrompt = `You are a business intelligence quality assurance specialist. Evaluate the research findings below against this 100-point framework:

1. Company fundamentals (25 pts): identification, business model, industry, geography, founding.
2. Financial intelligence (25 pts): revenue, funding and investors, valuation, growth trends.
3. Leadership and organization (20 pts): executive identification, structure and decision-makers, recent changes.
4. Market and competitive intelligence (15 pts): competitive landscape, market position, strategic developments.
5. Sales intelligence value (15 pts): buying signals, decision-process insights, risk factors.

Grading: "pass" at 75 points or more, "fail" below 75. High-quality research should pass even if some niche areas are incomplete.

If grading "fail", generate at most 3 highly specific follow-up queries targeting the most critical gaps, each tagged with its research phase. Use the exact organization name in quotation marks in every query.`

const prospectPlannerPrompt = `You are a prospect intelligence strategist. Create a research plan to identify buyer personas, named stakeholders, incumbent vendors and documented business priorities at the organization named by the user.

Use the complete, exact organization name in quotation marks in every search. Plan phases: stakeholder identification (names and titles of decision-makers), incumbent vendor and technology landscape, documented business priorities and initiatives, contact and engagement signals.`

const prospectSectionsPrompt = `Create a focused markdown outline for a prospect research report with these sections: named stakeholders and decision-makers, incumbent vendors and current solutions, documented business priorities, buying signals and timing, recommended engagement approach.

Keep section descriptions concise. Output structure only, no content.`

const prospectResearchPrompt = `You are a prospect researcher executing the research plan below.

Rules:
- Use the complete, exact organization name in quotation marks for all searches.
- Collect proper names of stakeholders, not just titles. A title without a name is a gap.
- Identify incumbent vendors and the solutions currently in use.
- Document stated business priorities with their source.

Report findings as structured bullet points under: named stakeholders, incumbent vendors, business priorities, buying signals. Maximum 1500 words total.`

const prospectEvaluatorPrompt = `You are a prospect research quality specialist. Grade the findings below on a graduated scale:

- "comprehensive" (tier 1): 5+ named stakeholders with roles, 3+ incumbent vendors identified, 3+ documented business priorities.
- "sales_ready" (tier 2): 3+ named stakeholders, 2+ incumbent vendors, 2+ documented priorities.
- "needs_improvement" (tier 3): 1-2 named stakeholders or thin vendor/priority coverage.
- "insufficient": anything less.

Strict rule: a stakeholder entry with a generic title and no proper name never counts toward any tier and never lifts the grade above "insufficient".

If the grade is below "sales_ready", generate at most 4 follow-up queries prioritized in this order: missing names, missing competitive intelligence, missing business context, missing contact information. Tag each query with its research phase and, where applicable, the target entity. Use the exact organization name in quotation marks in every query.`

const gapFillPrompt = `Execute the follow-up search below to address a specific gap identified during evaluation.

Rules:
- Use the complete, exact organization name in quotation marks.
- Provide ONLY new information, do not repeat existing research.
- Use structured bullet points and include source attribution.`

const composerPrompt = `Transform the research data below into a professional markdown intelligence report following the given report structure.

Citation rules (critical):
- Cite factual claims with EXACTLY this format: <cite source="src-ID" /> where src-ID is a short id from the provided source list.
- Place the citation immediately after the statement it supports.
- Never invent short ids that are not in the source list.

Content rules:
- Populate every section of the structure; write "Information not available in research" where the findings have nothing.
- Present both positive and negative findings. Include specific figures, dates and names.
- No placeholder text may remain in the output.`

const binaryVerdictSchema = `Return the JSON object directly without any formatting or additional text. The JSON object should have the following structure as defined in the schema. Make sure to answer in valid json and include all necessary properties:{
  "type": "object",
  "properties": {
    "grade": {"type": "string", "enum": ["pass", "fail"]},
    "comment": {"type": "string"},
    "missing_elements": {"type": "array", "items": {"type": "string"}},
    "follow_up_queries": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "query": {"type": "string"},
          "phase": {"type": "string"},
          "target_entity": {"type": "string"}
        },
        "required": ["query"]
      }
    }
  },
  "required": ["grade", "comment"]
}`

const tieredVerdictSchema = `Return the JSON object directly without any formatting or additional text. The JSON object should have the following structure as defined in the schema. Make sure to answer in valid json and include all necessary properties:{
  "type": "object",
  "properties": {
    "grade": {"type": "string", "enum": ["comprehensive", "sales_ready", "needs_improvement", "insufficient"]},
    "tier": {"type": "integer", "minimum": 1, "maximum": 3},
    "comment": {"type": "string"},
    "missing_elements": {"type": "array", "items": {"type": "string"}},
    "follow_up_queries": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "query": {"type": "string"},
          "phase": {"type": "string"},
          "target_entity": {"type": "string"}
        },
        "required": ["query"]
      }
    }
  },
  "required": ["grade", "comment"]
}`
